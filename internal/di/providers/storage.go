package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/openmusicapp/openmusic-server/internal/cache"
	"github.com/openmusicapp/openmusic-server/internal/config"
	"github.com/openmusicapp/openmusic-server/internal/logger"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.Info("Database opened", "path", cfg.DatabasePath())

	return &StoreHandle{Store: st}, nil
}

// CacheHandle wraps the like-count cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the embedded like-count cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.CachePath(), cfg.Cache.LikeCountTTL, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	log.Info("Like-count cache opened", "path", cfg.CachePath(), "ttl", cfg.Cache.LikeCountTTL)

	return &CacheHandle{Cache: c}, nil
}

// ProvideCoverStorage provides the album cover file storage.
func ProvideCoverStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)

	covers, err := images.NewStorage(cfg.CoversPath())
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}
	return covers, nil
}
