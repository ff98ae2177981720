// Package service provides the business logic layer for catalog,
// playlist, and account management.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// ownerDecision is the outcome of resolving a user against a
// playlist's owner.
type ownerDecision int

const (
	decisionAllowed ownerDecision = iota
	decisionNotOwner
	decisionNotFound
)

// AccessResolver answers the two authorization questions asked about
// playlists: "is this user the owner?" and "is this user the owner or
// a collaborator?". Both are resolved against the store on each call;
// decisions are never cached, so a revoked collaboration takes effect
// immediately.
type AccessResolver struct {
	store  store.Store
	logger *slog.Logger
}

// NewAccessResolver creates an access resolver backed by the store.
func NewAccessResolver(store store.Store, logger *slog.Logger) *AccessResolver {
	return &AccessResolver{store: store, logger: logger}
}

// resolveOwner classifies the user against the playlist's owner
// without deciding how a denial should be reported. Callers map the
// decision to an error suited to the operation.
func (r *AccessResolver) resolveOwner(ctx context.Context, playlistID, userID string) (ownerDecision, error) {
	ownerID, err := r.store.GetPlaylistOwner(ctx, playlistID)
	if errors.Is(err, store.ErrNotFound) {
		return decisionNotFound, nil
	}
	if err != nil {
		return decisionNotFound, fmt.Errorf("get playlist owner: %w", err)
	}
	if ownerID == userID {
		return decisionAllowed, nil
	}
	return decisionNotOwner, nil
}

// RequireOwner ensures the user owns the playlist. Owner-only
// operations (delete, collaborator management) go through here.
// Returns NotFound if the playlist is missing, Forbidden if the user
// is not the owner.
func (r *AccessResolver) RequireOwner(ctx context.Context, playlistID, userID string) error {
	decision, err := r.resolveOwner(ctx, playlistID, userID)
	if err != nil {
		return err
	}

	switch decision {
	case decisionAllowed:
		return nil
	case decisionNotFound:
		return domainerrors.NotFound("playlist not found")
	default:
		return domainerrors.Forbidden("you are not the owner of this playlist")
	}
}

// RequireAccess ensures the user owns the playlist or holds a
// collaboration on it. Ownership is checked first; only a "not owner"
// outcome consults the collaborator registry, so a missing playlist
// is always reported as NotFound rather than Forbidden. When neither
// tier grants access, the denial is reported as if the collaborator
// tier had never been consulted.
func (r *AccessResolver) RequireAccess(ctx context.Context, playlistID, userID string) error {
	decision, err := r.resolveOwner(ctx, playlistID, userID)
	if err != nil {
		return err
	}

	switch decision {
	case decisionAllowed:
		return nil
	case decisionNotFound:
		return domainerrors.NotFound("playlist not found")
	}

	ok, err := r.store.IsCollaborator(ctx, playlistID, userID)
	if err != nil {
		return fmt.Errorf("check collaboration: %w", err)
	}
	if !ok {
		return domainerrors.Forbidden("you are not the owner of this playlist")
	}
	return nil
}
