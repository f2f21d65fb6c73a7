package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type favouriteRepository interface {
	Upsert(ctx context.Context, schoolUserID, teacherUserID string) error
	Delete(ctx context.Context, schoolUserID, teacherUserID string) error
	ListTeacherIDs(ctx context.Context, schoolUserID string) ([]string, error)
}

type favouriteDiscovery interface {
	IsDiscoverable(ctx context.Context, teacherUserID string, dctx models.DiscoveryContext) (bool, error)
	List(ctx context.Context, q models.ListQuery) ([]models.TeacherSummary, error)
}

// FavouriteService manages a school's saved teachers. Saving is gated by
// current discoverability; removal is not. The stored relation survives a
// teacher later hiding, but hidden favourites are filtered out of every
// listing at read time.
type FavouriteService struct {
	repo      favouriteRepository
	discovery favouriteDiscovery
	logger    *zap.Logger
}

// NewFavouriteService constructs a FavouriteService instance.
func NewFavouriteService(repo favouriteRepository, discovery favouriteDiscovery, logger *zap.Logger) *FavouriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavouriteService{repo: repo, discovery: discovery, logger: logger}
}

// Add saves a teacher for a school. A teacher that is not discoverable
// today is rejected with the same not-found outcome as one that does not
// exist.
func (s *FavouriteService) Add(ctx context.Context, schoolUserID, teacherUserID string) error {
	discoverable, err := s.discovery.IsDiscoverable(ctx, teacherUserID, models.DiscoveryContext{Date: time.Now().UTC()})
	if err != nil {
		return err
	}
	if !discoverable {
		return appErrors.ErrNotFound
	}

	if err := s.repo.Upsert(ctx, schoolUserID, teacherUserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save favourite")
	}
	return nil
}

// Remove deletes a saved teacher. Removal is always allowed, even when the
// teacher is no longer discoverable, so schools can clean up stale entries.
func (s *FavouriteService) Remove(ctx context.Context, schoolUserID, teacherUserID string) error {
	if err := s.repo.Delete(ctx, schoolUserID, teacherUserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favourite")
	}
	return nil
}

// List returns the school's favourites that are discoverable right now, in
// most-recently-saved order. Set membership always matches what the
// per-teacher predicate would return for today.
func (s *FavouriteService) List(ctx context.Context, schoolUserID string) ([]models.FavouriteSummary, error) {
	ids, err := s.repo.ListTeacherIDs(ctx, schoolUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favourites")
	}
	if len(ids) == 0 {
		return []models.FavouriteSummary{}, nil
	}

	// The query is keyed by the saved ids so the favourite set can never be
	// truncated by the global listing cap: a favourite appears here exactly
	// when the per-teacher predicate holds for it today.
	discoverable, err := s.discovery.List(ctx, models.ListQuery{
		Date:       time.Now().UTC(),
		Phase:      models.PhaseTwo,
		TeacherIDs: ids,
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.TeacherSummary, len(discoverable))
	for _, t := range discoverable {
		byID[t.TeacherUserID] = t
	}

	out := make([]models.FavouriteSummary, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, models.FavouriteSummary{
			TeacherUserID:     t.TeacherUserID,
			Name:              t.Name,
			ProfilePictureURL: t.ProfilePictureURL,
			TeachingLevel:     t.TeachingLevel,
		})
	}
	return out, nil
}
