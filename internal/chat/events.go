package chat

// Server -> client event names.
const (
	EventRoomJoined      = "roomJoined"
	EventUsersList       = "updateUsersList"
	EventMessageReceived = "messageReceived"
)

// Ack is the reply to a client request that carried an ack id.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func okAck(msg string) Ack    { return Ack{Status: "ok", Message: msg} }
func errorAck(msg string) Ack { return Ack{Status: "error", Message: msg} }

// RoomJoined is sent to the joining connection only.
type RoomJoined struct {
	Message string `json:"message"`
}

// UsersList is the roster broadcast after every membership change.
type UsersList struct {
	Users []string `json:"users"`
}

// Message is a chat message broadcast to the sender's room.
type Message struct {
	FromName string `json:"fromName"`
	Message  string `json:"message"`
}
