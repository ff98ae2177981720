package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openmusicapp/openmusic-server/internal/http/response"
	"github.com/openmusicapp/openmusic-server/internal/service"
)

// albumRequest is the request body for creating or updating an album.
type albumRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Year int    `json:"year" validate:"required,gte=1900,lte=2100"`
}

// coverUploadOverhead leaves room for multipart framing on top of the
// raw image cap.
const coverUploadOverhead = 64 * 1024

// handleCreateAlbum creates a new album.
func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	albumID, err := s.albumService.CreateAlbum(r.Context(), service.AlbumInput{
		Name: req.Name,
		Year: req.Year,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"albumId": albumID}, s.logger)
}

// handleGetAlbum returns an album with its songs.
func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.albumService.GetAlbum(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"album": album}, s.logger)
}

// handleUpdateAlbum replaces an album's fields.
func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	err := s.albumService.UpdateAlbum(r.Context(), chi.URLParam(r, "id"), service.AlbumInput{
		Name: req.Name,
		Year: req.Year,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "album updated", s.logger)
}

// handleDeleteAlbum removes an album.
func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.albumService.DeleteAlbum(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "album deleted", s.logger)
}

// handleUploadAlbumCover accepts a multipart cover upload under the
// "cover" field.
func (s *Server) handleUploadAlbumCover(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes+coverUploadOverhead)
	file, _, err := r.FormFile("cover")
	if err != nil {
		response.BadRequest(w, "cover file is required", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read cover upload", s.logger)
		return
	}

	if err := s.albumService.UploadCover(r.Context(), albumID, data); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.CreatedMessage(w, "cover uploaded", nil, s.logger)
}

// handleGetAlbumCover serves the raw cover bytes.
func (s *Server) handleGetAlbumCover(w http.ResponseWriter, r *http.Request) {
	data, err := s.albumService.GetCover(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write cover response", "error", err)
	}
}

// handleLikeAlbum records a like from the authenticated user.
func (s *Server) handleLikeAlbum(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "id")
	userID := getUserID(r.Context())

	if err := s.albumService.LikeAlbum(r.Context(), albumID, userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.CreatedMessage(w, "album liked", nil, s.logger)
}

// handleUnlikeAlbum removes the authenticated user's like.
func (s *Server) handleUnlikeAlbum(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "id")
	userID := getUserID(r.Context())

	if err := s.albumService.UnlikeAlbum(r.Context(), albumID, userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "like removed", s.logger)
}

// handleGetAlbumLikes returns the like count. Cache hits are flagged
// with an X-Data-Source header.
func (s *Server) handleGetAlbumLikes(w http.ResponseWriter, r *http.Request) {
	count, fromCache, err := s.albumService.GetLikeCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if fromCache {
		w.Header().Set("X-Data-Source", "cache")
	}
	response.Success(w, map[string]int{"likes": count}, s.logger)
}
