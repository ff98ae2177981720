// Package cache provides a Badger-backed TTL cache for album like
// counts. Counts are cheap to recompute, so entries simply expire or
// get invalidated on mutation.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache wraps a Badger database used as an expiring key-value store.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// Open creates a cache at the given path with the given entry TTL.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	if logger != nil {
		logger.Info("like count cache opened", "path", path, "ttl", ttl)
	}

	return &Cache{db: db, logger: logger, ttl: ttl}, nil
}

// Close gracefully closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetLikeCount returns the cached like count for an album.
// Returns ErrMiss if the entry is absent or expired.
func (c *Cache) GetLikeCount(albumID string) (int, error) {
	var count int
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(likeCountKey(albumID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			n, err := strconv.Atoi(string(val))
			if err != nil {
				return fmt.Errorf("corrupt cache value: %w", err)
			}
			count = n
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrMiss
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetLikeCount stores an album's like count with the configured TTL.
func (c *Cache) SetLikeCount(albumID string, count int) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(likeCountKey(albumID), []byte(strconv.Itoa(count))).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// InvalidateLikeCount drops an album's cached count. Missing keys are
// fine; the next read just misses.
func (c *Cache) InvalidateLikeCount(albumID string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(likeCountKey(albumID))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func likeCountKey(albumID string) []byte {
	return []byte("album-likes:" + albumID)
}
