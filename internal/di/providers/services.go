package providers

import (
	"github.com/samber/do/v2"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/config"
	"github.com/openmusicapp/openmusic-server/internal/logger"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/service"
)

// ProvideAccessResolver provides the playlist access resolver.
func ProvideAccessResolver(i do.Injector) (*service.AccessResolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccessResolver(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the login/refresh/logout service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokens, limiter.KeyedRateLimiter, log.Logger), nil
}

// ProvideAlbumService provides the album catalog service.
func ProvideAlbumService(i do.Injector) (*service.AlbumService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	covers := do.MustInvoke[*images.Storage](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAlbumService(
		storeHandle.Store,
		covers,
		cacheHandle.Cache,
		log.Logger,
		cfg.Server.BaseURL,
		cfg.Upload.MaxCoverBytes,
	), nil
}

// ProvideSongService provides the song catalog service.
func ProvideSongService(i do.Injector) (*service.SongService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSongService(storeHandle.Store, log.Logger), nil
}

// ProvidePlaylistService provides the playlist service.
func ProvidePlaylistService(i do.Injector) (*service.PlaylistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	access := do.MustInvoke[*service.AccessResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlaylistService(storeHandle.Store, access, log.Logger), nil
}

// ProvideCollaborationService provides the collaborator registry service.
func ProvideCollaborationService(i do.Injector) (*service.CollaborationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	access := do.MustInvoke[*service.AccessResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollaborationService(storeHandle.Store, access, log.Logger), nil
}
