package service

import (
	"context"
	"encoding/json"

	"velora/internal/models"
	"velora/internal/repository"
	"velora/internal/ws"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
	hub      *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm, hub: hub}
}

// Notify persists an in-app notification, fans it out to the user's open
// WebSocket connections, and pushes it via FCM when the user has a registered
// device token.
func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, map[string]interface{}{
			"type":       "notification",
			"notif_type": notifType,
			"title":      title,
			"body":       body,
			"data":       data,
		})
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) List(userID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUserID(userID, limit, offset)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.repo.MarkRead(id, userID)
}

func (s *NotificationService) NotifyPaymentConfirmed(userID uint, amountCents int64, reference string) error {
	return s.Notify(userID, "PAYMENT_CONFIRMED", "Payment confirmed", "Your payment was successful.", map[string]interface{}{"amount_cents": amountCents, "reference": reference})
}

func (s *NotificationService) NotifyNewMessage(userID uint, senderName string, bookingID uint) error {
	if senderName == "" {
		senderName = "Someone"
	}
	return s.Notify(userID, "NEW_MESSAGE", "New message", senderName+" sent you a message", map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyNewReview(userID uint, rating int, bookingID uint) error {
	return s.Notify(userID, "NEW_REVIEW", "New review", "You received a new review", map[string]interface{}{"rating": rating, "booking_id": bookingID})
}
