package handler

import (
	"net/http"
	"strconv"
	"strings"

	"velora/internal/domain"
	"velora/internal/middleware"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/internal/service"
	"velora/internal/ws"
	"velora/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	bookingRepo *repository.BookingRepository
	chatHub     *ws.ChatHub
	notifSvc    *service.NotificationService
	cloud       cloudinary.Client
}

func NewChatHandler(bookingRepo *repository.BookingRepository, chatHub *ws.ChatHub, notifSvc *service.NotificationService, cloud cloudinary.Client) *ChatHandler {
	return &ChatHandler{bookingRepo: bookingRepo, chatHub: chatHub, notifSvc: notifSvc, cloud: cloud}
}

// chatAccess loads the booking and checks participation and chat availability.
func (h *ChatHandler) chatAccess(c *gin.Context) (*models.Booking, bool) {
	userID := middleware.GetUserID(c)
	b, err := h.bookingRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return nil, false
	}
	if b.ClientID != userID && b.Companion.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not part of this booking"})
		return nil, false
	}
	if !domain.ChatAvailable(b.Status) {
		c.JSON(http.StatusForbidden, gin.H{"error": "chat is only available while the booking is accepted"})
		return nil, false
	}
	return b, true
}

// Messages returns chat history for an accepted booking.
func (h *ChatHandler) Messages(c *gin.Context) {
	b, ok := h.chatAccess(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	msgs, err := h.bookingRepo.ListMessages(b.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type SendMessageRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"media_url"`
}

// Send posts a chat message over REST. Connected WebSocket peers in the
// booking's room receive it immediately.
func (h *ChatHandler) Send(c *gin.Context) {
	b, ok := h.chatAccess(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Content == "" && req.MediaURL == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content or media_url required"})
		return
	}
	m := &models.ChatMessage{
		BookingID: b.ID,
		SenderID:  userID,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
	}
	if err := h.bookingRepo.CreateMessage(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}
	if room := h.chatHub.GetRoom(b.ID); room != nil {
		room.Broadcast(nil, map[string]interface{}{
			"type":       "message",
			"id":         m.ID,
			"sender_id":  m.SenderID,
			"content":    m.Content,
			"media_url":  m.MediaURL,
			"created_at": m.CreatedAt,
		})
	}
	recipient := b.ClientID
	if userID == b.ClientID {
		recipient = b.Companion.UserID
	}
	if h.notifSvc != nil {
		_ = h.notifSvc.NotifyNewMessage(recipient, "", b.ID)
	}
	c.JSON(http.StatusCreated, m)
}

// UploadAttachment uploads an image for use in a chat message and returns its
// URL. The caller sends the URL back in a message's media_url.
func (h *ChatHandler) UploadAttachment(c *gin.Context) {
	b, ok := h.chatAccess(c)
	if !ok {
		return
	}
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media uploads not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "velora/chat/" + strconv.FormatUint(uint64(b.ID), 10)
	publicID := "att_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, thumbURL, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url, "thumbnail_url": thumbURL})
}
