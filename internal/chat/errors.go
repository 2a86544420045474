package chat

import "errors"

var (
	// ErrRoomNotFound means a join targeted a code no one ever created
	// (or whose presence key already expired).
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidInput covers blank names, codes, and messages.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotJoined means the connection has no association with the
	// room it tried to act on.
	ErrNotJoined = errors.New("not joined to room")
)
