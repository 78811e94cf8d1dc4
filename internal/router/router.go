package router

import (
	"log"
	"time"

	"velora/config"
	"velora/internal/domain"
	"velora/internal/handler"
	"velora/internal/middleware"
	"velora/internal/repository"
	"velora/internal/service"
	"velora/internal/ws"
	"velora/pkg/cloudinary"
	"velora/pkg/events"
	"velora/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers into a gin engine. The
// booking service is returned so the caller can hook it to the expiry
// scheduler.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider, publisher *events.Publisher) (*gin.Engine, *service.BookingService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companionRepo := repository.NewCompanionRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	chatHub := ws.NewChatHub()
	notifHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, notifHub)
	bookingSvc := service.NewBookingService(cfg, bookingRepo, companionRepo, availabilityRepo, paymentRepo, walletRepo, provider, notifSvc, chatHub, publisher)
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, companionRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, companionRepo)
	meHandler := handler.NewMeHandler(userRepo, companionRepo)
	companionHandler := handler.NewCompanionHandler(companionRepo, reviewRepo, cloud)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityRepo, companionRepo)
	bookingHandler := handler.NewBookingHandler(bookingSvc, bookingRepo, companionRepo)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	chatHandler := handler.NewChatHandler(bookingRepo, chatHub, notifSvc, cloud)
	paymentHandler := handler.NewPaymentHandler(cfg, paymentRepo, bookingRepo, userRepo, provider)
	paymentWebhookHandler := handler.NewPaymentWebhookHandler(cfg, paymentRepo, bookingRepo, notifSvc)
	walletHandler := handler.NewWalletHandler(walletRepo)
	notificationHandler := handler.NewNotificationHandler(notifSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adultMw := middleware.AdultOnly(userRepo)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/companions", authMw, adultMw, companionHandler.List)
		api.GET("/companions/:id", authMw, adultMw, companionHandler.GetProfile)
		api.GET("/companions/:id/reviews", authMw, adultMw, companionHandler.Reviews)
		api.GET("/companions/:id/availability", authMw, adultMw, availabilityHandler.GetWeek)
		api.GET("/companions/:id/slots", authMw, adultMw, bookingHandler.Slots)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.GET("/wallet", walletHandler.Get)
			me.GET("/wallet/transactions", walletHandler.Transactions)
		}

		companions := api.Group("/companions")
		companions.Use(authMw, adultMw, middleware.RequireRole(domain.RoleCompanion))
		{
			companions.PUT("/profile", companionHandler.UpdateProfile)
			companions.POST("/media", companionHandler.UploadMedia)
			companions.PUT("/availability", availabilityHandler.PutWeek)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw, adultMw)
		{
			bookings.POST("", middleware.RequireRole(domain.RoleClient), bookingHandler.Create)
			bookings.GET("", bookingHandler.ListMine)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/accept", middleware.RequireRole(domain.RoleCompanion), bookingHandler.Accept)
			bookings.POST("/:id/reject", middleware.RequireRole(domain.RoleCompanion), bookingHandler.Reject)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/complete", middleware.RequireRole(domain.RoleCompanion), bookingHandler.Complete)
			bookings.POST("/:id/reviews", reviewHandler.Submit)
			bookings.GET("/:id/messages", chatHandler.Messages)
			bookings.POST("/:id/messages", chatHandler.Send)
			bookings.POST("/:id/attachments", chatHandler.UploadAttachment)
		}

		api.POST("/payments/initiate", authMw, adultMw, paymentHandler.Initiate)
		api.GET("/payments/:reference/verify", authMw, paymentHandler.Verify)
		api.POST("/webhooks/paystack", paymentWebhookHandler.Handle)
	}

	r.GET("/ws/chat", handler.UpgradeChatWS(&cfg.JWT, chatHub, bookingRepo))
	r.GET("/ws/notifications", handler.UpgradeNotificationsWS(&cfg.JWT, notifHub))

	return r, bookingSvc
}
