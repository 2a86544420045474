package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	api := &RoomsAPI{}

	rec := httptest.NewRecorder()
	api.NewCode(rec, httptest.NewRequest(http.MethodPost, "/api/room-code", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp roomCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.RoomID, 8)
}

func TestNewCodeWrongMethod(t *testing.T) {
	api := &RoomsAPI{}

	rec := httptest.NewRecorder()
	api.NewCode(rec, httptest.NewRequest(http.MethodGet, "/api/room-code", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
