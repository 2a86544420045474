package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"log/slog"

	"room-chat/internal/chat"
	"room-chat/pkg/metrics"
)

// Hub owns every live connection on this process and the local rooms
// they are subscribed to. It implements chat.Broadcaster and runs the
// per-connection dispatch loop that feeds the lifecycle controller.
type Hub struct {
	log  *slog.Logger
	ctrl *chat.Controller

	mu    sync.RWMutex
	conns map[string]*Conn
	rooms map[string]*Room // local broadcast groups by room code
}

// NewHub sets up the hub; the controller is attached afterwards since
// it broadcasts through the hub itself.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{log: logger, conns: map[string]*Conn{}, rooms: map[string]*Room{}}
}

func (h *Hub) SetController(ctrl *chat.Controller) { h.ctrl = ctrl }

// Subscribe adds a connection to a room's local broadcast group.
func (h *Hub) Subscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.conns[connID]
	if c == nil {
		return
	}
	rm := h.rooms[room]
	if rm == nil {
		rm = NewRoom()
		h.rooms[room] = rm
		metrics.RoomsActive.Inc()
	}
	rm.Join(c)
}

// Unsubscribe removes a connection from a room, dropping the room once
// no local subscriber remains.
func (h *Hub) Unsubscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.conns[connID]
	rm := h.rooms[room]
	if c == nil || rm == nil {
		return
	}
	if rm.Leave(c) == 0 {
		delete(h.rooms, room)
		metrics.RoomsActive.Dec()
	}
}

// Broadcast delivers an event to every connection subscribed to the
// room on this process. Fire-and-forget.
func (h *Hub) Broadcast(room, event string, payload any) {
	b, err := encodeFrame(event, 0, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	rm := h.rooms[room]
	h.mu.RUnlock()
	if rm != nil {
		rm.Broadcast(b)
	}
}

// ServeWS handles a new /ws connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wsc, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(uuid.NewString(), wsc)
	h.register(c)
	metrics.ConnectionsActive.Inc()
	h.log.Info("ws.connected", "conn", c.ID())

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound dispatch: one event at a time per connection
	for {
		data, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.dispatch(ctx, c, data)
	}

	// The request context dies with the socket; cleanup gets its own.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	h.ctrl.Disconnect(cleanupCtx, c.ID())
	cancel()

	h.unregister(c)
	metrics.ConnectionsActive.Dec()
	_ = c.Close()
	h.log.Info("ws.disconnected", "conn", c.ID())
}

func (h *Hub) register(c *Conn) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID())
	h.mu.Unlock()
}

func (h *Hub) dispatch(ctx context.Context, c *Conn, data []byte) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		h.log.Debug("ws.frame.bad", "conn", c.ID(), "err", err)
		return
	}

	switch f.Event {
	case eventCreateRoom:
		var req createRoomReq
		_ = json.Unmarshal(f.Data, &req)
		h.ack(c, f.Ack, h.ctrl.CreateRoom(ctx, req.RoomID))

	case eventJoinRoom:
		var req joinRoomReq
		_ = json.Unmarshal(f.Data, &req)
		h.ack(c, f.Ack, h.ctrl.Join(ctx, c.ID(), req.Name, req.RoomID, c))

	case eventSendMessage:
		var req sendMessageReq
		_ = json.Unmarshal(f.Data, &req)
		if err := h.ctrl.SendMessage(ctx, c.ID(), req.Message, req.RoomID); err != nil {
			h.log.Debug("ws.send.dropped", "conn", c.ID(), "err", err)
		}

	case eventLeaveRoom:
		var req leaveRoomReq
		_ = json.Unmarshal(f.Data, &req)
		if err := h.ctrl.Leave(ctx, c.ID(), req.RoomID); err != nil {
			h.ack(c, f.Ack, chat.Ack{Status: "error", Message: "could not leave room"})
		} else {
			h.ack(c, f.Ack, chat.Ack{Status: "ok"})
		}

	default:
		h.log.Debug("ws.event.unknown", "conn", c.ID(), "event", f.Event)
	}
}

// ack answers a request frame that carried an ack id; requests without
// one get no reply.
func (h *Hub) ack(c *Conn, id int64, a chat.Ack) {
	if id == 0 {
		return
	}
	b, err := encodeFrame(eventAck, id, a)
	if err != nil {
		return
	}
	c.queue(b)
}
