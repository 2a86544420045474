package chat

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"room-chat/pkg/metrics"
)

// Store is the shared presence store, the source of truth for room
// membership across server processes. AddMember must be atomic at the
// store (append-if-absent), since connections on different processes
// can race to join the same room.
type Store interface {
	CreateRoom(ctx context.Context, code string) error
	RoomExists(ctx context.Context, code string) (bool, error)
	ListMembers(ctx context.Context, code string) ([]string, error)
	AddMember(ctx context.Context, code, name string) error
	RemoveMember(ctx context.Context, code, name string) error
}

// Broadcaster groups connections into rooms and fans events out to
// every currently subscribed connection.
type Broadcaster interface {
	Subscribe(connID, room string)
	Unsubscribe(connID, room string)
	Broadcast(room, event string, payload any)
}

// Sender delivers an event to a single connection.
type Sender interface {
	Send(event string, payload any)
}

// Controller drives the per-connection room lifecycle: create, join,
// send, leave, disconnect. Each connection's events arrive one at a
// time from its dispatch loop; events from different connections
// interleave at store round-trips, which is why membership mutation is
// pushed down into the store rather than done read-then-write here.
type Controller struct {
	log   *slog.Logger
	store Store
	rooms Broadcaster
	reg   *Registry
}

func NewController(log *slog.Logger, store Store, rooms Broadcaster, reg *Registry) *Controller {
	return &Controller{log: log, store: store, rooms: rooms, reg: reg}
}

// CreateRoom initializes the room's presence entry. Creation is
// decoupled from joining: the creator still sends joinRoom afterwards.
func (c *Controller) CreateRoom(ctx context.Context, code string) Ack {
	if strings.TrimSpace(code) == "" {
		return errorAck("roomId required")
	}
	if err := c.store.CreateRoom(ctx, code); err != nil {
		c.log.Error("room.create", "room", code, "err", err)
		metrics.StoreErrors.Inc()
		return errorAck("could not create room")
	}
	c.log.Info("room.created", "room", code)
	return okAck("Room created successfully")
}

// Join adds the connection to a room: membership write first, then
// subscribe + associate, then a roster broadcast to the whole room.
// On any store failure the connection stays unjoined, so a retry of
// the same join is safe.
func (c *Controller) Join(ctx context.Context, connID, name, code string, sender Sender) Ack {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(code) == "" {
		return errorAck("name and roomId required")
	}

	exists, err := c.store.RoomExists(ctx, code)
	if err != nil {
		c.log.Error("room.join", "room", code, "err", err)
		metrics.StoreErrors.Inc()
		return errorAck("could not join room")
	}
	if !exists {
		c.log.Debug("room.join", "room", code, "err", ErrRoomNotFound)
		return errorAck("Room not found")
	}

	// A fresh join supersedes a stale one; the old association is
	// cleaned up before the new one is recorded.
	if prev, ok := c.reg.Lookup(connID); ok {
		switch {
		case prev.Room == code && prev.Name == name:
			// Pure rejoin, nothing to clean up.
		case prev.Room == code:
			// Same room under a new name: swap the roster entry.
			if err := c.store.RemoveMember(ctx, code, prev.Name); err != nil {
				c.log.Error("room.join", "room", code, "name", prev.Name, "err", err)
				metrics.StoreErrors.Inc()
				return errorAck("could not join room")
			}
		default:
			if err := c.leave(ctx, connID, prev); err != nil {
				return errorAck("could not join room")
			}
		}
	}

	members, err := c.store.ListMembers(ctx, code)
	if err != nil {
		c.log.Error("room.join", "room", code, "err", err)
		metrics.StoreErrors.Inc()
		return errorAck("could not join room")
	}

	// Reconnect with the same name skips the store write but still
	// re-subscribes and re-announces presence.
	if !slices.Contains(members, name) {
		if err := c.store.AddMember(ctx, code, name); err != nil {
			c.log.Error("room.join", "room", code, "name", name, "err", err)
			metrics.StoreErrors.Inc()
			return errorAck("could not join room")
		}
	}

	c.rooms.Subscribe(connID, code)
	c.reg.Associate(connID, name, code)
	metrics.Joins.Inc()
	c.log.Info("room.joined", "room", code, "name", name)

	sender.Send(EventRoomJoined, RoomJoined{Message: "Room joined successfully"})

	// Re-read so the broadcast reflects concurrent joins too.
	if members, err = c.store.ListMembers(ctx, code); err != nil {
		c.log.Error("room.roster", "room", code, "err", err)
		metrics.StoreErrors.Inc()
	} else {
		c.rooms.Broadcast(code, EventUsersList, UsersList{Users: members})
	}

	return okAck("Room joined successfully")
}

// SendMessage broadcasts a chat message to the sender's room. The
// connection must actually be joined to the room it names; the
// registry's display name is authoritative over the claimed one.
func (c *Controller) SendMessage(ctx context.Context, connID, message, code string) error {
	if strings.TrimSpace(message) == "" || strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}
	sess, ok := c.reg.Lookup(connID)
	if !ok || sess.Room != code {
		return ErrNotJoined
	}
	c.rooms.Broadcast(code, EventMessageReceived, Message{FromName: sess.Name, Message: message})
	metrics.Messages.Inc()
	return nil
}

// Leave removes the connection from its room and broadcasts the
// remaining roster. Leaving a room the connection never joined (or
// leaving twice) is a no-op.
func (c *Controller) Leave(ctx context.Context, connID, code string) error {
	sess, ok := c.reg.Lookup(connID)
	if !ok || sess.Room != code {
		return nil
	}
	return c.leave(ctx, connID, sess)
}

// Disconnect is transport-initiated cleanup. If the connection had an
// active join its room is cleaned up like an explicit leave; the
// registry entry is cleared regardless.
func (c *Controller) Disconnect(ctx context.Context, connID string) {
	sess, ok := c.reg.Lookup(connID)
	if !ok {
		return
	}
	if err := c.store.RemoveMember(ctx, sess.Room, sess.Name); err != nil {
		// No response channel on disconnect; log and fall through so
		// the local subscription and registry entry still go away.
		c.log.Error("room.disconnect", "room", sess.Room, "name", sess.Name, "err", err)
		metrics.StoreErrors.Inc()
	}
	c.rooms.Unsubscribe(connID, sess.Room)
	c.reg.Clear(connID)
	c.broadcastRoster(ctx, sess.Room)
	c.log.Info("room.left", "room", sess.Room, "name", sess.Name, "reason", "disconnect")
}

// leave is the shared leave path. The registry entry survives a failed
// store removal so the client can retry.
func (c *Controller) leave(ctx context.Context, connID string, sess Session) error {
	if err := c.store.RemoveMember(ctx, sess.Room, sess.Name); err != nil {
		c.log.Error("room.leave", "room", sess.Room, "name", sess.Name, "err", err)
		metrics.StoreErrors.Inc()
		return err
	}
	c.rooms.Unsubscribe(connID, sess.Room)
	c.reg.Clear(connID)
	c.broadcastRoster(ctx, sess.Room)
	c.log.Info("room.left", "room", sess.Room, "name", sess.Name)
	return nil
}

func (c *Controller) broadcastRoster(ctx context.Context, code string) {
	members, err := c.store.ListMembers(ctx, code)
	if err != nil {
		c.log.Error("room.roster", "room", code, "err", err)
		metrics.StoreErrors.Inc()
		return
	}
	c.rooms.Broadcast(code, EventUsersList, UsersList{Users: members})
}
