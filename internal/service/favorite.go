package service

import (
	"context"
	"log/slog"

	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// FavoriteService manages each user's set of favorite campsites.
//
// Favorites are SET-SEMANTIC: adding a campsite twice is a logical success
// that changes nothing. The added/existed booleans let the handler phrase
// its response ("already in the list" vs. a fresh add) without a second
// round-trip to storage.
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(repo repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: logger}
}

// Get returns the user's favorite document with every campsite resolved.
// A user with no favorites gets an empty set, never an error.
func (s *FavoriteService) Get(ctx context.Context, userID string) (*model.Favorite, error) {
	return s.repo.Get(ctx, userID)
}

// AddOne inserts a single campsite into the user's set. The second return
// reports whether the set actually grew (false = duplicate no-op).
func (s *FavoriteService) AddOne(ctx context.Context, userID, campsiteID string) (*model.Favorite, bool, error) {
	added, err := s.repo.Add(ctx, userID, campsiteID)
	if err != nil {
		return nil, false, err
	}
	if added {
		s.logger.Info("favorite added",
			slog.String("userID", userID),
			slog.String("campsiteID", campsiteID),
		)
	}

	fav, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return fav, added, nil
}

// AddMany merges a batch of campsite ids into the user's set, skipping
// ids already present. Insertion is fail-fast: an id naming a campsite
// that does not exist aborts the batch with NotFound, and ids processed
// before it stay in the set (each insert is its own idempotent no-op on
// retry, so re-submitting the corrected batch converges).
func (s *FavoriteService) AddMany(ctx context.Context, userID string, campsiteIDs []string) (*model.Favorite, error) {
	for _, id := range campsiteIDs {
		if _, err := s.repo.Add(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	s.logger.Info("favorites merged",
		slog.String("userID", userID),
		slog.Int("requested", len(campsiteIDs)),
	)

	return s.repo.Get(ctx, userID)
}

// Remove deletes one campsite from the user's set and returns the
// remaining set. Removing an id that is not in the set is NotFound.
func (s *FavoriteService) Remove(ctx context.Context, userID, campsiteID string) (*model.Favorite, error) {
	if err := s.repo.Remove(ctx, userID, campsiteID); err != nil {
		return nil, err
	}

	s.logger.Info("favorite removed",
		slog.String("userID", userID),
		slog.String("campsiteID", campsiteID),
	)

	return s.repo.Get(ctx, userID)
}

// Clear empties the user's set. The boolean reports whether there was
// anything to delete, so the handler can answer "you do not have any
// favorites to delete" instead of echoing an empty document.
func (s *FavoriteService) Clear(ctx context.Context, userID string) (bool, error) {
	existed, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return false, err
	}
	if existed {
		s.logger.Info("favorites cleared", slog.String("userID", userID))
	}
	return existed, nil
}
