package ws

import (
	"encoding/json"
	"sync"
)

// ChatRoom is one room per booking (client + companion).
type ChatRoom struct {
	BookingID   uint
	ClientID    uint
	CompanionID uint
	clients     map[*Client]struct{}
	mu          sync.RWMutex
}

func NewChatRoom(bookingID, clientID, companionID uint) *ChatRoom {
	return &ChatRoom{
		BookingID:   bookingID,
		ClientID:    clientID,
		CompanionID: companionID,
		clients:     make(map[*Client]struct{}),
	}
}

func (r *ChatRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *ChatRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *ChatRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *ChatRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds all chat rooms by booking ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*ChatRoom
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*ChatRoom)}
}

func (h *ChatHub) GetOrCreateRoom(bookingID, clientID, companionID uint) *ChatRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[bookingID]; ok {
		return r
	}
	r := NewChatRoom(bookingID, clientID, companionID)
	h.rooms[bookingID] = r
	return r
}

func (h *ChatHub) GetRoom(bookingID uint) *ChatRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[bookingID]
}

// RemoveRoom drops the room and closes every client still connected to it.
// Called when the booking leaves the accepted state.
func (h *ChatHub) RemoveRoom(bookingID uint) {
	h.mu.Lock()
	r := h.rooms[bookingID]
	delete(h.rooms, bookingID)
	h.mu.Unlock()
	if r == nil {
		return
	}
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.clients = make(map[*Client]struct{})
	r.mu.Unlock()
	for _, c := range clients {
		c.Close()
	}
}
