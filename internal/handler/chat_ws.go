package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"velora/config"
	"velora/internal/auth"
	"velora/internal/domain"
	"velora/internal/models"
	"velora/internal/repository"
	"velora/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for chat; query: token, booking_id.
// User must be client or companion of that booking; the booking must be
// accepted.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.ChatHub, bookingRepo *repository.BookingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		bookingIDStr := c.Query("booking_id")
		if token == "" || bookingIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and booking_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var bookingID uint
		if _, err := fmt.Sscanf(bookingIDStr, "%d", &bookingID); err != nil || bookingID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
			return
		}
		b, err := bookingRepo.GetByID(bookingID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		if !domain.ChatAvailable(b.Status) {
			c.JSON(http.StatusForbidden, gin.H{"error": "chat is only available while the booking is accepted"})
			return
		}
		companionUserID := b.Companion.UserID
		if claims.UserID != b.ClientID && claims.UserID != companionUserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not part of this booking"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(bookingID, b.ClientID, b.CompanionID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						// room torn down; close the socket so the read
						// loop unblocks
						conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
						_ = conn.WriteMessage(websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseNormalClosure, "chat closed"))
						conn.Close()
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type     string `json:"type"`
				Content  string `json:"content"`
				MediaURL string `json:"media_url"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" {
				continue
			}
			if chatHub.GetRoom(bookingID) == nil {
				break
			}
			cm := &models.ChatMessage{
				BookingID: bookingID,
				SenderID:  claims.UserID,
				Content:   msg.Content,
				MediaURL:  msg.MediaURL,
			}
			if err := bookingRepo.CreateMessage(cm); err != nil {
				continue
			}
			payload := map[string]interface{}{
				"type":       "message",
				"id":         cm.ID,
				"sender_id":  cm.SenderID,
				"content":    cm.Content,
				"media_url":  cm.MediaURL,
				"created_at": cm.CreatedAt,
			}
			room.Broadcast(client, payload)
		}
	}
}
