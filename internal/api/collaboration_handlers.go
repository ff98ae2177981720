package api

import (
	"net/http"

	"github.com/openmusicapp/openmusic-server/internal/http/response"
)

// collaborationRequest names the playlist and the user whose access
// is granted or revoked.
type collaborationRequest struct {
	PlaylistID string `json:"playlistId" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
}

// handleAddCollaborator grants a user access to a playlist.
func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req collaborationRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	collabID, err := s.collabService.AddCollaborator(r.Context(), req.PlaylistID, req.UserID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"collaborationId": collabID}, s.logger)
}

// handleRemoveCollaborator revokes a user's access to a playlist.
func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	var req collaborationRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	err := s.collabService.RemoveCollaborator(r.Context(), req.PlaylistID, req.UserID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "collaborator removed", s.logger)
}
