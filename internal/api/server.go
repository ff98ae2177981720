// Package api provides the HTTP API server and handlers for the OpenMusic application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/http/response"
	"github.com/openmusicapp/openmusic-server/internal/ratelimit"
	"github.com/openmusicapp/openmusic-server/internal/service"
	"github.com/openmusicapp/openmusic-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	userService     *service.UserService
	sessionService  *service.SessionService
	albumService    *service.AlbumService
	songService     *service.SongService
	playlistService *service.PlaylistService
	collabService   *service.CollaborationService
	tokens          *auth.TokenService
	validator       *validation.Validator
	loginLimiter    *ratelimit.KeyedRateLimiter
	maxBodyBytes    int64
	router          *chi.Mux
	logger          *slog.Logger
}

// Config carries the server's handler dependencies.
type Config struct {
	Users        *service.UserService
	Sessions     *service.SessionService
	Albums       *service.AlbumService
	Songs        *service.SongService
	Playlists    *service.PlaylistService
	Collabs      *service.CollaborationService
	Tokens       *auth.TokenService
	Validator    *validation.Validator
	LoginLimiter *ratelimit.KeyedRateLimiter
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config) *Server {
	s := &Server{
		userService:     cfg.Users,
		sessionService:  cfg.Sessions,
		albumService:    cfg.Albums,
		songService:     cfg.Songs,
		playlistService: cfg.Playlists,
		collabService:   cfg.Collabs,
		tokens:          cfg.Tokens,
		validator:       cfg.Validator,
		loginLimiter:    cfg.LoginLimiter,
		maxBodyBytes:    cfg.MaxBodyBytes,
		router:          chi.NewRouter(),
		logger:          cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Data-Source"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Accounts and authentication (public).
		r.Post("/users", s.handleRegister)
		r.Route("/authentications", func(r chi.Router) {
			r.With(s.limitLogin).Post("/", s.handleLogin)
			r.Put("/", s.handleRefresh)
			r.Delete("/", s.handleLogout)
		})

		// Album catalog. Reads are public, writes too: the original
		// API keeps catalog management unauthenticated. Likes need a
		// user.
		r.Route("/albums", func(r chi.Router) {
			r.Post("/", s.handleCreateAlbum)
			r.Get("/{id}", s.handleGetAlbum)
			r.Put("/{id}", s.handleUpdateAlbum)
			r.Delete("/{id}", s.handleDeleteAlbum)
			r.Post("/{id}/covers", s.handleUploadAlbumCover)
			r.Get("/{id}/cover", s.handleGetAlbumCover)
			r.Get("/{id}/likes", s.handleGetAlbumLikes)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/{id}/likes", s.handleLikeAlbum)
				r.Delete("/{id}/likes", s.handleUnlikeAlbum)
			})
		})

		// Song catalog.
		r.Route("/songs", func(r chi.Router) {
			r.Post("/", s.handleCreateSong)
			r.Get("/", s.handleListSongs)
			r.Get("/{id}", s.handleGetSong)
			r.Put("/{id}", s.handleUpdateSong)
			r.Delete("/{id}", s.handleDeleteSong)
		})

		// Playlists (require auth).
		r.Route("/playlists", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePlaylist)
			r.Get("/", s.handleListPlaylists)
			r.Delete("/{id}", s.handleDeletePlaylist)
			r.Post("/{id}/songs", s.handleAddPlaylistSong)
			r.Get("/{id}/songs", s.handleGetPlaylistSongs)
			r.Delete("/{id}/songs", s.handleRemovePlaylistSong)
			r.Get("/{id}/activities", s.handleGetPlaylistActivities)
		})

		// Collaborations (require auth, owner checked in the service).
		r.Route("/collaborations", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleAddCollaborator)
			r.Delete("/", s.handleRemoveCollaborator)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
