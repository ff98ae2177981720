package api

import (
	"net/http"

	"github.com/openmusicapp/openmusic-server/internal/http/response"
	"github.com/openmusicapp/openmusic-server/internal/service"
)

// registerRequest is the request body for account registration.
type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullname" validate:"required,min=1,max=255"`
}

// refreshRequest carries the refresh token for rotation and logout.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// handleRegister creates a new user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	userID, err := s.userService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"userId": userID}, s.logger)
}

// handleLogin authenticates a user and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	pair, err := s.sessionService.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, r.RemoteAddr, r.UserAgent())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, pair, s.logger)
}

// handleRefresh rotates a refresh token and issues a new access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	pair, err := s.sessionService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, pair, s.logger)
}

// handleLogout closes the session behind a refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.sessionService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "session closed", s.logger)
}
