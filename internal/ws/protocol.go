package ws

import "encoding/json"

// Frame is the JSON envelope for every event in both directions.
// Client requests may carry an ack id; the server answers those with
// an "ack" frame echoing the same id.
type Frame struct {
	Event string          `json:"event"`
	Ack   int64           `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server event names.
const (
	eventCreateRoom  = "createRoom"
	eventJoinRoom    = "joinRoom"
	eventSendMessage = "sendMessage"
	eventLeaveRoom   = "leaveRoom"

	eventAck = "ack"
)

type createRoomReq struct {
	RoomID string `json:"roomId"`
}

type joinRoomReq struct {
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

type sendMessageReq struct {
	FromName string `json:"fromName"`
	Message  string `json:"message"`
	RoomID   string `json:"roomId"`
}

type leaveRoomReq struct {
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

// encodeFrame marshals an outbound frame; payload marshal errors are
// impossible for our own event types, so the caller may ignore them.
func encodeFrame(event string, ack int64, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Ack: ack, Data: data})
}
