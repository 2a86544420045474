package httpx

import (
	"encoding/json"
	"net/http"

	"room-chat/internal/chat"
)

type RoomsAPI struct{}

type roomCodeResponse struct {
	RoomID string `json:"roomId"`
}

// NewCode mints an unguessable room code for a client about to send
// createRoom. Codes are not reserved; creation happens over the socket.
func (a *RoomsAPI) NewCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	code, err := chat.NewRoomCode()
	if err != nil {
		http.Error(w, "could not generate code", http.StatusInternalServerError)
		return
	}
	writeJSON(w, roomCodeResponse{RoomID: code})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
