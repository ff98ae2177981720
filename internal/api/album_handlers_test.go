package api

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createAlbum inserts an album over the API and returns its ID.
func createAlbum(t *testing.T, server *Server, name string) string {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/v1/albums", "", `{"name":"`+name+`","year":2015}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return dataField(t, decodeEnvelope(t, w), "albumId")
}

// uploadCover posts a multipart cover for an album.
func uploadCover(t *testing.T, server *Server, albumID string, imgData []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cover", "cover.jpg")
	require.NoError(t, err)
	_, err = part.Write(imgData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/albums/"+albumID+"/covers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// jpegBytes renders a small solid JPEG for upload tests.
func jpegBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 60, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestAlbumLifecycleOverHTTP(t *testing.T) {
	server := setupTestServer(t)

	albumID := createAlbum(t, server, "Twelvefour")

	w := doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := decodeEnvelope(t, w).Data.(map[string]any)
	require.True(t, ok)
	album, ok := data["album"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Twelvefour", album["name"])

	w = doJSON(t, server, http.MethodPut, "/api/v1/albums/"+albumID, "", `{"name":"States","year":2013}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodDelete, "/api/v1/albums/"+albumID, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlbumCoverUploadOverHTTP(t *testing.T) {
	server := setupTestServer(t)

	albumID := createAlbum(t, server, "Covered")
	imgData := jpegBytes(t)

	w := uploadCover(t, server, albumID, imgData)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The stored cover is served back verbatim.
	w2 := doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID+"/cover", "", "")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, imgData, w2.Body.Bytes())

	// Non-images are rejected.
	w3 := uploadCover(t, server, albumID, []byte("definitely not a jpeg"))
	assert.Equal(t, http.StatusBadRequest, w3.Code)
}

func TestAlbumLikesOverHTTP(t *testing.T) {
	server := setupTestServer(t)

	albumID := createAlbum(t, server, "Likeable")
	_, token := registerAndLogin(t, server, "albumfan")

	// Liking requires auth.
	w := doJSON(t, server, http.MethodPost, "/api/v1/albums/"+albumID+"/likes", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/albums/"+albumID+"/likes", token, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Double-like is a 400.
	w = doJSON(t, server, http.MethodPost, "/api/v1/albums/"+albumID+"/likes", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// First count read comes from the store, the second from cache.
	w = doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID+"/likes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Data-Source"))

	w = doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID+"/likes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cache", w.Header().Get("X-Data-Source"))
	data, ok := decodeEnvelope(t, w).Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, data["likes"])

	// Unlike invalidates and the next read misses the cache.
	w = doJSON(t, server, http.MethodDelete, "/api/v1/albums/"+albumID+"/likes", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, server, http.MethodGet, "/api/v1/albums/"+albumID+"/likes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Data-Source"))
}
