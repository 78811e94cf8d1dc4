package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Role: "CLIENT", Send: make(chan []byte, 4)}
}

func TestHub_BroadcastToUser(t *testing.T) {
	h := NewHub()
	a1 := newTestClient(1)
	a2 := newTestClient(1)
	b := newTestClient(2)
	h.Register(a1)
	h.Register(a2)
	h.Register(b)

	h.BroadcastToUser(1, map[string]interface{}{"type": "notification", "title": "hi"})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.Send:
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &payload))
			assert.Equal(t, "notification", payload["type"])
		default:
			t.Fatal("expected a payload on the user's connection")
		}
	}
	assert.Empty(t, b.Send, "other users must not receive the payload")
}

func TestHub_BroadcastToUnknownUser(t *testing.T) {
	h := NewHub()
	h.Register(newTestClient(1))

	h.BroadcastToUser(99, map[string]interface{}{"type": "notification"})

	assert.Equal(t, 1, h.ClientCount())
}

func TestHub_CloseUnregisters(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)
	require.Equal(t, 1, h.ClientCount())

	c.Close()

	assert.Equal(t, 0, h.ClientCount())
	h.BroadcastToUser(1, map[string]interface{}{"type": "notification"})
	_, open := <-c.Send
	assert.False(t, open, "send channel must be closed")
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)

	c.Close()
	c.Close()

	assert.Equal(t, 0, h.ClientCount())
}
