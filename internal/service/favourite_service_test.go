package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type mockFavouriteRepo struct {
	ids      []string
	upserted [][2]string
	deleted  [][2]string
}

func (m *mockFavouriteRepo) Upsert(ctx context.Context, schoolUserID, teacherUserID string) error {
	m.upserted = append(m.upserted, [2]string{schoolUserID, teacherUserID})
	return nil
}

func (m *mockFavouriteRepo) Delete(ctx context.Context, schoolUserID, teacherUserID string) error {
	m.deleted = append(m.deleted, [2]string{schoolUserID, teacherUserID})
	return nil
}

func (m *mockFavouriteRepo) ListTeacherIDs(ctx context.Context, schoolUserID string) ([]string, error) {
	return m.ids, nil
}

type stubFavouriteDiscovery struct {
	discoverable map[string]bool
	listing      []models.TeacherSummary
	gotQuery     models.ListQuery
}

func (s *stubFavouriteDiscovery) IsDiscoverable(ctx context.Context, teacherUserID string, dctx models.DiscoveryContext) (bool, error) {
	return s.discoverable[teacherUserID], nil
}

func (s *stubFavouriteDiscovery) List(ctx context.Context, q models.ListQuery) ([]models.TeacherSummary, error) {
	s.gotQuery = q
	if len(q.TeacherIDs) == 0 {
		return s.listing, nil
	}
	wanted := make(map[string]struct{}, len(q.TeacherIDs))
	for _, id := range q.TeacherIDs {
		wanted[id] = struct{}{}
	}
	out := make([]models.TeacherSummary, 0, len(s.listing))
	for _, t := range s.listing {
		if _, ok := wanted[t.TeacherUserID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestFavouriteAddGatedByDiscoverability(t *testing.T) {
	repo := &mockFavouriteRepo{}
	svc := NewFavouriteService(repo, &stubFavouriteDiscovery{discoverable: map[string]bool{"t1": true}}, zap.NewNop())

	require.NoError(t, svc.Add(context.Background(), "s1", "t1"))
	require.Len(t, repo.upserted, 1)

	err := svc.Add(context.Background(), "s1", "t2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.upserted, 1)
}

func TestFavouriteRemoveNotGated(t *testing.T) {
	repo := &mockFavouriteRepo{}
	// Nothing is discoverable, removal still succeeds.
	svc := NewFavouriteService(repo, &stubFavouriteDiscovery{}, zap.NewNop())

	require.NoError(t, svc.Remove(context.Background(), "s1", "t1"))
	require.Len(t, repo.deleted, 1)
}

func TestFavouriteListFiltersHiddenTeachers(t *testing.T) {
	repo := &mockFavouriteRepo{ids: []string{"t3", "t1", "t2"}}
	discovery := &stubFavouriteDiscovery{listing: []models.TeacherSummary{
		{TeacherUserID: "t1", Name: "Alice Wong"},
		{TeacherUserID: "t3", Name: "Carol Diaz"},
	}}
	svc := NewFavouriteService(repo, discovery, zap.NewNop())

	out, err := svc.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Saved order survives; the hidden t2 is dropped.
	assert.Equal(t, "t3", out[0].TeacherUserID)
	assert.Equal(t, "t1", out[1].TeacherUserID)
}

func TestFavouriteListQueriesBySavedIDs(t *testing.T) {
	// The listing must be keyed by the saved ids, so a discoverable
	// favourite stays visible no matter how many other teachers a global
	// listing would rank ahead of it.
	repo := &mockFavouriteRepo{ids: []string{"t2"}}
	discovery := &stubFavouriteDiscovery{listing: []models.TeacherSummary{
		{TeacherUserID: "t1", Name: "Alice Wong"},
		{TeacherUserID: "t2", Name: "Ben Okafor"},
	}}
	svc := NewFavouriteService(repo, discovery, zap.NewNop())

	out, err := svc.List(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, discovery.gotQuery.TeacherIDs)
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].TeacherUserID)
}

func TestFavouriteListEmpty(t *testing.T) {
	svc := NewFavouriteService(&mockFavouriteRepo{}, &stubFavouriteDiscovery{}, zap.NewNop())

	out, err := svc.List(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, out)
}
