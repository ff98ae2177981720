// Package di provides dependency injection configuration for the OpenMusic server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/config"
	"github.com/openmusicapp/openmusic-server/internal/di/providers"
	"github.com/openmusicapp/openmusic-server/internal/logger"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/service"
	"github.com/openmusicapp/openmusic-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideCoverStorage)

	// Business services
	do.Provide(injector, providers.ProvideAccessResolver)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAlbumService)
	do.Provide(injector, providers.ProvideSongService)
	do.Provide(injector, providers.ProvidePlaylistService)
	do.Provide(injector, providers.ProvideCollaborationService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy
// initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	cfg := do.MustInvoke[*config.Config](injector)
	if err := cfg.Validate(); err != nil {
		return err
	}

	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)

	_ = do.MustInvoke[*service.AccessResolver](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AlbumService](injector)
	_ = do.MustInvoke[*service.SongService](injector)
	_ = do.MustInvoke[*service.PlaylistService](injector)
	_ = do.MustInvoke[*service.CollaborationService](injector)

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
