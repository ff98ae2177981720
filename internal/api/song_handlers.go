package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openmusicapp/openmusic-server/internal/http/response"
	"github.com/openmusicapp/openmusic-server/internal/service"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// songRequest is the request body for creating or updating a song.
type songRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=255"`
	Year      int     `json:"year" validate:"required,gte=1900,lte=2100"`
	Genre     string  `json:"genre" validate:"required,min=1,max=100"`
	Performer string  `json:"performer" validate:"required,min=1,max=255"`
	Duration  *int    `json:"duration" validate:"omitempty,gt=0"`
	AlbumID   *string `json:"albumId" validate:"omitempty,min=1"`
}

func (req songRequest) toInput() service.SongInput {
	return service.SongInput{
		Title:     req.Title,
		Year:      req.Year,
		Genre:     req.Genre,
		Performer: req.Performer,
		Duration:  req.Duration,
		AlbumID:   req.AlbumID,
	}
}

// handleCreateSong adds a song to the catalog.
func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	songID, err := s.songService.CreateSong(r.Context(), req.toInput())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"songId": songID}, s.logger)
}

// handleListSongs returns song summaries filtered by optional title
// and performer query parameters.
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	filter := store.SongFilter{
		Title:     r.URL.Query().Get("title"),
		Performer: r.URL.Query().Get("performer"),
	}

	songs, err := s.songService.ListSongs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"songs": songs}, s.logger)
}

// handleGetSong returns a single song.
func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.songService.GetSong(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"song": song}, s.logger)
}

// handleUpdateSong replaces a song's fields.
func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.songService.UpdateSong(r.Context(), chi.URLParam(r, "id"), req.toInput()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "song updated", s.logger)
}

// handleDeleteSong removes a song from the catalog.
func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.songService.DeleteSong(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "song deleted", s.logger)
}
