package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/openmusicapp/openmusic-server/internal/api"
	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/config"
	"github.com/openmusicapp/openmusic-server/internal/logger"
	"github.com/openmusicapp/openmusic-server/internal/service"
	"github.com/openmusicapp/openmusic-server/internal/validation"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(api.Config{
		Users:        do.MustInvoke[*service.UserService](i),
		Sessions:     do.MustInvoke[*service.SessionService](i),
		Albums:       do.MustInvoke[*service.AlbumService](i),
		Songs:        do.MustInvoke[*service.SongService](i),
		Playlists:    do.MustInvoke[*service.PlaylistService](i),
		Collabs:      do.MustInvoke[*service.CollaborationService](i),
		Tokens:       do.MustInvoke[*auth.TokenService](i),
		Validator:    do.MustInvoke[*validation.Validator](i),
		LoginLimiter: do.MustInvoke[*LoginLimiterHandle](i).KeyedRateLimiter,
		MaxBodyBytes: cfg.Upload.MaxCoverBytes,
		Logger:       log.Logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr, "base_url", cfg.Server.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
