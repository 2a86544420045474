package ws

import (
	"encoding/json"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-chat/internal/chat"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// drain pops every queued frame off a connection's send buffer.
func drain(t *testing.T, c *Conn) []Frame {
	t.Helper()
	var frames []Frame
	for {
		select {
		case b := <-c.out:
			var f Frame
			require.NoError(t, json.Unmarshal(b, &f))
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestHubBroadcastReachesOnlySubscribers(t *testing.T) {
	h := testHub()
	a, b, outsider := NewConn("a", nil), NewConn("b", nil), NewConn("x", nil)
	for _, c := range []*Conn{a, b, outsider} {
		h.register(c)
	}

	h.Subscribe("a", "AB12CD34")
	h.Subscribe("b", "AB12CD34")
	h.Subscribe("x", "OTHER567")

	h.Broadcast("AB12CD34", chat.EventUsersList, chat.UsersList{Users: []string{"Alice", "Bob"}})

	for _, c := range []*Conn{a, b} {
		frames := drain(t, c)
		require.Len(t, frames, 1, "conn %s", c.ID())
		assert.Equal(t, chat.EventUsersList, frames[0].Event)

		var roster chat.UsersList
		require.NoError(t, json.Unmarshal(frames[0].Data, &roster))
		assert.Equal(t, []string{"Alice", "Bob"}, roster.Users)
	}
	assert.Empty(t, drain(t, outsider), "no delivery outside the room")
}

func TestHubUnsubscribe(t *testing.T) {
	h := testHub()
	a, b := NewConn("a", nil), NewConn("b", nil)
	h.register(a)
	h.register(b)
	h.Subscribe("a", "AB12CD34")
	h.Subscribe("b", "AB12CD34")

	h.Unsubscribe("a", "AB12CD34")
	h.Broadcast("AB12CD34", chat.EventMessageReceived, chat.Message{FromName: "Bob", Message: "hi"})

	assert.Empty(t, drain(t, a))
	assert.Len(t, drain(t, b), 1)

	// Last one out drops the local room.
	h.Unsubscribe("b", "AB12CD34")
	h.mu.RLock()
	_, ok := h.rooms["AB12CD34"]
	h.mu.RUnlock()
	assert.False(t, ok)

	// Broadcasting to a room with no local subscribers is a no-op.
	h.Broadcast("AB12CD34", chat.EventMessageReceived, chat.Message{FromName: "Bob", Message: "hi"})
}

func TestHubSubscribeUnknownConn(t *testing.T) {
	h := testHub()
	h.Subscribe("ghost", "AB12CD34")
	h.Unsubscribe("ghost", "AB12CD34")

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Empty(t, h.rooms)
}

func TestAckFrames(t *testing.T) {
	h := testHub()
	c := NewConn("a", nil)
	h.register(c)

	// No ack id, no reply.
	h.ack(c, 0, chat.Ack{Status: "ok"})
	assert.Empty(t, drain(t, c))

	h.ack(c, 7, chat.Ack{Status: "ok", Message: "Room created successfully"})
	frames := drain(t, c)
	require.Len(t, frames, 1)
	assert.Equal(t, "ack", frames[0].Event)
	assert.Equal(t, int64(7), frames[0].Ack)

	var a chat.Ack
	require.NoError(t, json.Unmarshal(frames[0].Data, &a))
	assert.Equal(t, "ok", a.Status)
}

func TestConnSendDropsWhenFull(t *testing.T) {
	c := NewConn("a", nil)
	for i := 0; i < cap(c.out)+10; i++ {
		c.Send(chat.EventMessageReceived, chat.Message{FromName: "Alice", Message: "spam"})
	}
	assert.Len(t, c.out, cap(c.out), "overflow is dropped, never blocks")
}
