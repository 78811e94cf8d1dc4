package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velora/config"
	"velora/internal/database"
	"velora/internal/router"
	"velora/internal/scheduler"
	"velora/pkg/cloudinary"
	"velora/pkg/events"
	"velora/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Printf("[cloudinary] media uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	var provider payment.Provider
	switch cfg.Payment.Provider {
	case "paystack":
		provider = payment.NewPaystackProvider(cfg.Payment.PaystackBaseURL, cfg.Payment.PaystackSecretKey)
		log.Printf("[payment] paystack provider enabled")
	default:
		provider = &payment.StubProvider{}
		log.Printf("[payment] stub provider enabled (set PAYMENT_PROVIDER=paystack for live payments)")
	}

	var publisher *events.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("amqp: %v", err)
		}
		defer publisher.Close()
		log.Printf("[events] publishing booking events to exchange %q", cfg.AMQP.Exchange)
	} else {
		log.Printf("[events] event publishing disabled: set RABBITMQ_URL to enable")
	}

	engine, bookingSvc := router.Setup(cfg, db, cloud, provider, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := scheduler.New(cfg.Booking.SweepInterval, func(now time.Time) (int, error) {
		expired, err := bookingSvc.ExpirePending(now)
		return len(expired), err
	})
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
