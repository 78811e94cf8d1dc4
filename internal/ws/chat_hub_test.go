package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHub_GetOrCreateRoomReuses(t *testing.T) {
	h := NewChatHub()

	r1 := h.GetOrCreateRoom(5, 1, 10)
	r2 := h.GetOrCreateRoom(5, 1, 10)

	assert.Same(t, r1, r2)
	assert.Same(t, r1, h.GetRoom(5))
}

func TestChatRoom_BroadcastExcludesSender(t *testing.T) {
	h := NewChatHub()
	room := h.GetOrCreateRoom(5, 1, 10)
	sender := newTestClient(1)
	other := newTestClient(2)
	room.Join(sender)
	room.Join(other)

	room.Broadcast(sender, map[string]interface{}{"type": "message", "content": "hey"})

	assert.Empty(t, sender.Send)
	select {
	case raw := <-other.Send:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "hey", payload["content"])
	default:
		t.Fatal("expected the other participant to receive the message")
	}
}

func TestChatHub_RemoveRoomClosesClients(t *testing.T) {
	h := NewChatHub()
	room := h.GetOrCreateRoom(5, 1, 10)
	c1 := newTestClient(1)
	c2 := newTestClient(2)
	room.Join(c1)
	room.Join(c2)

	h.RemoveRoom(5)

	assert.Nil(t, h.GetRoom(5))
	assert.Equal(t, 0, room.ClientCount())
	for _, c := range []*Client{c1, c2} {
		_, open := <-c.Send
		assert.False(t, open, "clients must be disconnected when the room goes away")
	}
}

func TestChatHub_RemoveMissingRoom(t *testing.T) {
	h := NewChatHub()

	h.RemoveRoom(404)

	assert.Nil(t, h.GetRoom(404))
}
