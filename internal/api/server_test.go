package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/cache"
	"github.com/openmusicapp/openmusic-server/internal/http/response"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/ratelimit"
	"github.com/openmusicapp/openmusic-server/internal/service"
	"github.com/openmusicapp/openmusic-server/internal/store/sqlite"
	"github.com/openmusicapp/openmusic-server/internal/validation"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setupTestServer creates a test server with all dependencies on a
// temp directory.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	likeCache, err := cache.Open(filepath.Join(tmpDir, "cache"), time.Minute, logger)
	require.NoError(t, err)
	t.Cleanup(func() { likeCache.Close() })

	covers, err := images.NewStorage(filepath.Join(tmpDir, "covers"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	access := service.NewAccessResolver(st, logger)
	return NewServer(Config{
		Users:        service.NewUserService(st, logger),
		Sessions:     service.NewSessionService(st, tokens, limiter, logger),
		Albums:       service.NewAlbumService(st, covers, likeCache, logger, "http://localhost:5000", 512000),
		Songs:        service.NewSongService(st, logger),
		Playlists:    service.NewPlaylistService(st, access, logger),
		Collabs:      service.NewCollaborationService(st, access, logger),
		Tokens:       tokens,
		Validator:    validation.New(),
		LoginLimiter: limiter,
		MaxBodyBytes: 512000,
		Logger:       logger,
	})
}

// doJSON performs a request with a JSON body and optional bearer token.
func doJSON(t *testing.T, server *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decodeEnvelope unmarshals a recorded response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// dataField returns a string field from the envelope's data object.
func dataField(t *testing.T, env response.Envelope, key string) string {
	t.Helper()

	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "envelope data is not an object")
	value, ok := data[key].(string)
	require.True(t, ok, "data field %q missing or not a string", key)
	return value
}

// registerAndLogin creates an account and returns its user ID and an
// access token.
func registerAndLogin(t *testing.T, server *Server, username string) (userID, token string) {
	t.Helper()

	body := `{"username":"` + username + `","password":"secret-password","fullname":"Test ` + username + `"}`
	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID = dataField(t, decodeEnvelope(t, w), "userId")

	login := `{"username":"` + username + `","password":"secret-password"}`
	w = doJSON(t, server, http.MethodPost, "/api/v1/authentications", "", login)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token = dataField(t, decodeEnvelope(t, w), "accessToken")
	return userID, token
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "success", env.Status)
}

func TestRegisterValidation(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", `{"username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "fail", env.Status)
	assert.NotEmpty(t, env.Message)

	w = doJSON(t, server, http.MethodPost, "/api/v1/users", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticationFlow(t *testing.T) {
	server := setupTestServer(t)

	body := `{"username":"flowuser","password":"secret-password","fullname":"Flow User"}`
	w := doJSON(t, server, http.MethodPost, "/api/v1/users", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Wrong password is rejected with 401.
	w = doJSON(t, server, http.MethodPost, "/api/v1/authentications", "", `{"username":"flowuser","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/authentications", "", `{"username":"flowuser","password":"secret-password"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	refreshToken := dataField(t, env, "refreshToken")

	// Refresh rotates the token pair.
	w = doJSON(t, server, http.MethodPut, "/api/v1/authentications", "", `{"refreshToken":"`+refreshToken+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := dataField(t, decodeEnvelope(t, w), "refreshToken")
	assert.NotEqual(t, refreshToken, rotated)

	// Logout closes the session; the rotated token stops working.
	w = doJSON(t, server, http.MethodDelete, "/api/v1/authentications", "", `{"refreshToken":"`+rotated+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, server, http.MethodPut, "/api/v1/authentications", "", `{"refreshToken":"`+rotated+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlaylistsRequireAuth(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/playlists", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/playlists", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
