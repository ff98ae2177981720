package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openmusicapp/openmusic-server/internal/http/response"
)

// playlistSongRequest names the song for membership mutations.
type playlistSongRequest struct {
	SongID string `json:"songId" validate:"required"`
}

// handleCreatePlaylist creates a playlist owned by the caller.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,min=1,max=255"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	playlistID, err := s.playlistService.CreatePlaylist(r.Context(), getUserID(r.Context()), req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"playlistId": playlistID}, s.logger)
}

// handleListPlaylists returns the playlists the caller owns or
// collaborates on.
func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.playlistService.ListPlaylists(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"playlists": playlists}, s.logger)
}

// handleDeletePlaylist removes a playlist. Owner only.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	err := s.playlistService.DeletePlaylist(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "playlist deleted", s.logger)
}

// handleAddPlaylistSong adds a song to a playlist.
func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	var req playlistSongRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	err := s.playlistService.AddSong(r.Context(), chi.URLParam(r, "id"), req.SongID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.CreatedMessage(w, "song added to playlist", nil, s.logger)
}

// handleGetPlaylistSongs returns the playlist with its songs.
func (s *Server) handleGetPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.playlistService.GetSongs(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"playlist": playlist}, s.logger)
}

// handleRemovePlaylistSong removes a song from a playlist.
func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	var req playlistSongRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	err := s.playlistService.RemoveSong(r.Context(), chi.URLParam(r, "id"), req.SongID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "song removed from playlist", s.logger)
}

// handleGetPlaylistActivities returns the playlist's mutation history.
func (s *Server) handleGetPlaylistActivities(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	activities, err := s.playlistService.GetActivities(r.Context(), playlistID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"playlistId": playlistID,
		"activities": activities,
	}, s.logger)
}
