package response

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "album-1"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "album-1", data["id"])
}

func TestCreatedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	CreatedMessage(rec, "Playlist created", map[string]string{"playlistId": "playlist-1"}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Playlist created", body["message"])
}

func TestError_ClientVsServerStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "playlist not found", nil)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "playlist not found", body["message"])

	rec = httptest.NewRecorder()
	Error(rec, http.StatusInternalServerError, "boom", nil)
	body = decodeEnvelope(t, rec)
	assert.Equal(t, "error", body["status"])
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", domainerrors.NotFound("playlist not found"), http.StatusNotFound, "playlist not found"},
		{"forbidden", domainerrors.Forbidden("you do not have access to this playlist"), http.StatusForbidden, "you do not have access to this playlist"},
		{"validation", domainerrors.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"conflict", domainerrors.Conflict("username already taken"), http.StatusConflict, "username already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantBody, body["message"])
		})
	}
}

func TestHandleError_UnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, assert.AnError, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "internal server error", body["message"])
}
