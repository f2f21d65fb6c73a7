package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
	"github.com/relieftech/marketplace-api/pkg/geo"
)

type mockDiscoveryRepo struct {
	rows       []models.DiscoveryRow
	candidates map[string]*models.CandidateRow
	listErr    error
	findErr    error
	gotIDs     []string
}

func (m *mockDiscoveryRepo) ListDiscoverable(ctx context.Context, date, now time.Time, countryCode string, teacherIDs []string) ([]models.DiscoveryRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.gotIDs = teacherIDs
	if len(teacherIDs) == 0 {
		return m.rows, nil
	}
	wanted := make(map[string]struct{}, len(teacherIDs))
	for _, id := range teacherIDs {
		wanted[id] = struct{}{}
	}
	kept := make([]models.DiscoveryRow, 0, len(m.rows))
	for _, row := range m.rows {
		if _, ok := wanted[row.TeacherUserID]; ok {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

func (m *mockDiscoveryRepo) FindCandidate(ctx context.Context, teacherUserID string, date, now time.Time) (*models.CandidateRow, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.candidates[teacherUserID], nil
}

type mockDiscoveryTeacherRepo struct {
	users    map[string]*models.User
	profiles map[string]*models.TeacherProfile
}

func (m *mockDiscoveryTeacherRepo) FindActiveTeacher(ctx context.Context, teacherUserID string) (*models.User, error) {
	u, ok := m.users[teacherUserID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockDiscoveryTeacherRepo) FindProfile(ctx context.Context, teacherUserID string) (*models.TeacherProfile, error) {
	p, ok := m.profiles[teacherUserID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type mockDiscoveryStandingRepo struct {
	latest *models.Subscription
	flags  *models.SubscriptionFlags
}

func (m *mockDiscoveryStandingRepo) FindLatest(ctx context.Context, teacherUserID string) (*models.Subscription, error) {
	if m.latest == nil {
		return nil, sql.ErrNoRows
	}
	return m.latest, nil
}

func (m *mockDiscoveryStandingRepo) FindFlags(ctx context.Context, teacherUserID string) (*models.SubscriptionFlags, error) {
	return m.flags, nil
}

type mockDiscoveryVerificationRepo struct {
	rows []models.CredentialVerification
}

func (m *mockDiscoveryVerificationRepo) ListByTeacher(ctx context.Context, teacherUserID string) ([]models.CredentialVerification, error) {
	return m.rows, nil
}

func newDiscoveryService(repo *mockDiscoveryRepo, teachers *mockDiscoveryTeacherRepo, standing *mockDiscoveryStandingRepo, verifications *mockDiscoveryVerificationRepo) *DiscoveryService {
	if teachers == nil {
		teachers = &mockDiscoveryTeacherRepo{}
	}
	if standing == nil {
		standing = &mockDiscoveryStandingRepo{}
	}
	if verifications == nil {
		verifications = &mockDiscoveryVerificationRepo{}
	}
	return NewDiscoveryService(repo, teachers, standing, verifications, zap.NewNop(), 500)
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func candidate(hasProfile bool, country *string, calendar, weekly *bool, validSub bool) *models.CandidateRow {
	return &models.CandidateRow{
		TeacherUserID: "t1",
		HasProfile:    hasProfile,
		CountryCode:   country,
		CalendarValue: calendar,
		WeeklyValue:   weekly,
		HasValidSub:   validSub,
	}
}

func TestEvaluateCandidateCalendarOverrideWins(t *testing.T) {
	// Weekly says available, the override for the exact date says not.
	row := candidate(true, strPtr("AU"), boolPtr(false), boolPtr(true), true)
	assert.False(t, evaluateCandidate(row, ""))

	// Weekly says unavailable, the override flips it back on.
	row = candidate(true, strPtr("AU"), boolPtr(true), boolPtr(false), true)
	assert.True(t, evaluateCandidate(row, ""))
}

func TestEvaluateCandidateWeeklyFallback(t *testing.T) {
	row := candidate(true, strPtr("AU"), nil, boolPtr(true), true)
	assert.True(t, evaluateCandidate(row, ""))

	row = candidate(true, strPtr("AU"), nil, boolPtr(false), true)
	assert.False(t, evaluateCandidate(row, ""))
}

func TestEvaluateCandidateNoAvailabilityRows(t *testing.T) {
	row := candidate(true, strPtr("AU"), nil, nil, true)
	assert.False(t, evaluateCandidate(row, ""))
}

func TestEvaluateCandidateRequiresProfileAndLocation(t *testing.T) {
	row := candidate(false, strPtr("AU"), boolPtr(true), nil, true)
	assert.False(t, evaluateCandidate(row, ""))

	row = candidate(true, nil, boolPtr(true), nil, true)
	assert.False(t, evaluateCandidate(row, ""))
}

func TestEvaluateCandidateRequiresValidSubscription(t *testing.T) {
	row := candidate(true, strPtr("AU"), boolPtr(true), nil, false)
	assert.False(t, evaluateCandidate(row, ""))
}

func TestEvaluateCandidateCountryMatch(t *testing.T) {
	row := candidate(true, strPtr("AU"), boolPtr(true), nil, true)
	assert.True(t, evaluateCandidate(row, "AU"))
	assert.False(t, evaluateCandidate(row, "NZ"))

	// Matching is case-insensitive on both sides.
	row = candidate(true, strPtr("au"), boolPtr(true), nil, true)
	assert.True(t, evaluateCandidate(row, normalizeCountryCode("Au")))
}

func TestIsDiscoverableUnknownTeacher(t *testing.T) {
	repo := &mockDiscoveryRepo{candidates: map[string]*models.CandidateRow{}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	ok, err := svc.IsDiscoverable(context.Background(), "missing", models.DiscoveryContext{Date: time.Now()})
	require.NoError(t, err)
	assert.False(t, ok)
}

func discoveryRow(id, name string, boostedUntil *time.Time, tier *string) models.DiscoveryRow {
	return models.DiscoveryRow{
		TeacherUserID:    id,
		Name:             name,
		ProfilePicture:   "https://cdn.example.com/" + id + ".jpg",
		TeachingLevel:    "primary",
		CountryCode:      "AU",
		Postcode:         "2000",
		RadiusKm:         25,
		BoostActiveUntil: boostedUntil,
		Tier:             tier,
	}
}

func TestListPhaseOneTruncatesNames(t *testing.T) {
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "Alice Wong", nil, nil),
		discoveryRow("t2", "Bob", nil, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), Phase: models.PhaseOne})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alice W.", out[0].Name)
	assert.Equal(t, "Bob", out[1].Name)
	assert.Nil(t, out[0].IsPriority)
	assert.Empty(t, out[0].SubscriptionTier)
}

func TestListPhaseTwoKeepsFullNames(t *testing.T) {
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "Alice Wong", nil, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), Phase: models.PhaseTwo})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice Wong", out[0].Name)
}

func TestListPhaseThreeProjection(t *testing.T) {
	pro := models.TierPro
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "Alice Wong", nil, &pro),
		discoveryRow("t2", "Bob Chen", nil, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), CountryCode: "AU", Phase: models.PhaseThree})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, models.TierPro, out[0].SubscriptionTier)
	require.NotNil(t, out[0].IsPriority)
	assert.True(t, *out[0].IsPriority)
	assert.Equal(t, "AU", out[0].Location.CountryCode)

	// No subscription row projects as basic, non-priority.
	assert.Equal(t, models.TierBasic, out[1].SubscriptionTier)
	require.NotNil(t, out[1].IsPriority)
	assert.False(t, *out[1].IsPriority)
}

func TestRankingBoostedFirstStableWithinPartition(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
		discoveryRow("t2", "B B", &future, nil),
		discoveryRow("t3", "C C", nil, nil),
		discoveryRow("t4", "D D", &future, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), Phase: models.PhaseTwo})
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.TeacherUserID)
	}
	assert.Equal(t, []string{"t2", "t4", "t1", "t3"}, ids)
}

func TestRankingPhaseThreePrioritySecondKey(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)
	pro := models.TierPro
	basic := models.TierBasic
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, &pro),
		discoveryRow("t2", "B B", &future, &basic),
		discoveryRow("t3", "C C", &future, &pro),
		discoveryRow("t4", "D D", nil, &basic),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), CountryCode: "AU", Phase: models.PhaseThree})
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.TeacherUserID)
	}
	// Boost dominates priority; within each boost partition priority wins;
	// the incoming id order breaks remaining ties.
	assert.Equal(t, []string{"t3", "t2", "t1", "t4"}, ids)
}

func TestRankingExpiredBoostDoesNotCount(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
		discoveryRow("t2", "B B", &past, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), Phase: models.PhaseTwo})
	require.NoError(t, err)
	assert.Equal(t, "t1", out[0].TeacherUserID)
	assert.False(t, out[0].IsBoosted)
	assert.False(t, out[1].IsBoosted)
}

func TestListCapAppliedAfterRanking(t *testing.T) {
	// Three discoverable teachers, cap of two. The boosted teacher carries
	// the highest id; the cap must still keep it because truncation runs
	// after ranking, not in id order.
	future := time.Now().UTC().Add(time.Hour)
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
		discoveryRow("t2", "B B", nil, nil),
		discoveryRow("t3", "C C", &future, nil),
	}}
	svc := NewDiscoveryService(repo, &mockDiscoveryTeacherRepo{}, &mockDiscoveryStandingRepo{}, &mockDiscoveryVerificationRepo{}, zap.NewNop(), 2)

	out, err := svc.List(context.Background(), models.ListQuery{Date: time.Now(), Phase: models.PhaseTwo})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t3", out[0].TeacherUserID)
	assert.True(t, out[0].IsBoosted)
	assert.Equal(t, "t1", out[1].TeacherUserID)
}

func TestListTeacherIDSubsetUncapped(t *testing.T) {
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
		discoveryRow("t2", "B B", nil, nil),
		discoveryRow("t3", "C C", nil, nil),
	}}
	svc := NewDiscoveryService(repo, &mockDiscoveryTeacherRepo{}, &mockDiscoveryStandingRepo{}, &mockDiscoveryVerificationRepo{}, zap.NewNop(), 1)

	out, err := svc.List(context.Background(), models.ListQuery{
		Date:       time.Now(),
		Phase:      models.PhaseTwo,
		TeacherIDs: []string{"t2", "t3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3"}, repo.gotIDs)
	require.Len(t, out, 2)
}

func TestListDistanceFilterNarrowsOnly(t *testing.T) {
	rows := []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
		discoveryRow("t2", "B B", nil, nil),
		discoveryRow("t3", "C C", nil, nil),
	}
	repo := &mockDiscoveryRepo{rows: rows}
	svc := newDiscoveryService(repo, nil, nil, nil)

	origin := geo.Geocode("3000", originSalt)
	within := 0
	for _, r := range rows {
		if geo.HaversineKm(origin, geo.Geocode(r.Postcode, r.TeacherUserID)) <= 5000 {
			within++
		}
	}

	out, err := svc.List(context.Background(), models.ListQuery{
		Date:           time.Now(),
		Phase:          models.PhaseTwo,
		OriginPostcode: "3000",
		MaxDistanceKm:  5000,
	})
	require.NoError(t, err)
	assert.Len(t, out, within)
	assert.LessOrEqual(t, len(out), len(rows))
}

func TestListDistanceFilterZeroRadiusIgnored(t *testing.T) {
	repo := &mockDiscoveryRepo{rows: []models.DiscoveryRow{
		discoveryRow("t1", "A A", nil, nil),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	out, err := svc.List(context.Background(), models.ListQuery{
		Date:           time.Now(),
		Phase:          models.PhaseTwo,
		OriginPostcode: "3000",
		MaxDistanceKm:  0,
	})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestGeocodeDeterministicAndSalted(t *testing.T) {
	a := geo.Geocode("2000", originSalt)
	b := geo.Geocode("2000", originSalt)
	assert.Equal(t, a, b)

	// Same postcode under a different salt must not collide.
	c := geo.Geocode("2000", "t1")
	assert.NotEqual(t, a, c)

	assert.GreaterOrEqual(t, a.Latitude, -60.0)
	assert.LessOrEqual(t, a.Latitude, 60.0)
	assert.GreaterOrEqual(t, a.Longitude, -180.0)
	assert.LessOrEqual(t, a.Longitude, 180.0)
}

func TestDetailHiddenTeacherLooksMissing(t *testing.T) {
	repo := &mockDiscoveryRepo{candidates: map[string]*models.CandidateRow{
		// Exists but has no valid subscription.
		"hidden": candidate(true, strPtr("AU"), boolPtr(true), nil, false),
	}}
	svc := newDiscoveryService(repo, nil, nil, nil)

	_, errHidden := svc.Detail(context.Background(), "hidden", models.DiscoveryContext{Date: time.Now()}, models.PhaseTwo)
	_, errMissing := svc.Detail(context.Background(), "missing", models.DiscoveryContext{Date: time.Now()}, models.PhaseTwo)

	require.Error(t, errHidden)
	require.Error(t, errMissing)
	assert.Equal(t, appErrors.FromError(errMissing), appErrors.FromError(errHidden))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(errHidden).Code)
}

func TestDetailRelayEmail(t *testing.T) {
	phone := "+61400000000"
	repo := &mockDiscoveryRepo{candidates: map[string]*models.CandidateRow{
		"t1": candidate(true, strPtr("AU"), boolPtr(true), nil, true),
	}}
	teachers := &mockDiscoveryTeacherRepo{
		users: map[string]*models.User{
			"t1": {ID: "t1", Role: models.RoleTeacher, AccountStatus: models.AccountActive, Email: "real@example.com", PhonePrimary: &phone},
		},
		profiles: map[string]*models.TeacherProfile{
			"t1": {TeacherUserID: "t1", Name: "Alice Wong", TeachingLevel: "primary"},
		},
	}
	svc := newDiscoveryService(repo, teachers, nil, nil)

	detail, err := svc.Detail(context.Background(), "t1", models.DiscoveryContext{Date: time.Now()}, models.PhaseTwo)
	require.NoError(t, err)
	assert.Equal(t, "teacher+t1@relay.invalid", detail.Contact.EmailRelay)
	require.NotNil(t, detail.Contact.PhonePrimary)
	assert.Equal(t, phone, *detail.Contact.PhonePrimary)
	assert.Nil(t, detail.Subscription)
}

func TestDetailPhaseThreeStanding(t *testing.T) {
	now := time.Now().UTC()
	boostUntil := now.Add(time.Hour)
	decided := now.Add(-time.Hour)
	repo := &mockDiscoveryRepo{candidates: map[string]*models.CandidateRow{
		"t1": candidate(true, strPtr("AU"), boolPtr(true), nil, true),
	}}
	teachers := &mockDiscoveryTeacherRepo{
		users:    map[string]*models.User{"t1": {ID: "t1", AccountStatus: models.AccountActive}},
		profiles: map[string]*models.TeacherProfile{"t1": {TeacherUserID: "t1", Name: "Alice Wong"}},
	}
	standing := &mockDiscoveryStandingRepo{
		latest: &models.Subscription{Tier: models.TierPro},
		flags:  &models.SubscriptionFlags{BoostActiveUntil: &boostUntil},
	}
	verifications := &mockDiscoveryVerificationRepo{rows: []models.CredentialVerification{
		// Newest first; the second teacher_registration row must be dropped.
		{Type: models.VerificationTeacherRegistration, Status: models.VerificationApproved, SubmittedAt: now, DecidedAt: &decided},
		{Type: models.VerificationTeacherRegistration, Status: models.VerificationRejected, SubmittedAt: now.Add(-48 * time.Hour)},
		{Type: models.VerificationWorkingWithChildren, Status: models.VerificationSubmitted, SubmittedAt: now},
	}}
	svc := newDiscoveryService(repo, teachers, standing, verifications)

	detail, err := svc.Detail(context.Background(), "t1", models.DiscoveryContext{Date: now, CountryCode: "AU"}, models.PhaseThree)
	require.NoError(t, err)

	require.NotNil(t, detail.Subscription)
	assert.Equal(t, models.TierPro, detail.Subscription.Tier)
	assert.True(t, detail.Subscription.IsPriority)
	assert.True(t, detail.Subscription.IsBoosted)

	require.NotNil(t, detail.CredentialVerification)
	require.Len(t, detail.CredentialVerification.LatestByType, 2)
	assert.Equal(t, models.VerificationApproved, detail.CredentialVerification.LatestByType[0].Status)
	assert.Equal(t, models.VerificationWorkingWithChildren, detail.CredentialVerification.LatestByType[1].Type)
}

func TestDetailPhaseThreeNoSubscriptionRow(t *testing.T) {
	repo := &mockDiscoveryRepo{candidates: map[string]*models.CandidateRow{
		"t1": candidate(true, strPtr("AU"), boolPtr(true), nil, true),
	}}
	teachers := &mockDiscoveryTeacherRepo{
		users:    map[string]*models.User{"t1": {ID: "t1", AccountStatus: models.AccountActive}},
		profiles: map[string]*models.TeacherProfile{"t1": {TeacherUserID: "t1", Name: "Alice Wong"}},
	}
	svc := newDiscoveryService(repo, teachers, &mockDiscoveryStandingRepo{}, nil)

	detail, err := svc.Detail(context.Background(), "t1", models.DiscoveryContext{Date: time.Now(), CountryCode: "AU"}, models.PhaseThree)
	require.NoError(t, err)
	require.NotNil(t, detail.Subscription)
	assert.Equal(t, models.TierBasic, detail.Subscription.Tier)
	assert.False(t, detail.Subscription.IsPriority)
	assert.False(t, detail.Subscription.IsBoosted)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Alice W.", models.TruncateName("Alice Wong"))
	assert.Equal(t, "Alice C.", models.TruncateName("Alice de la Cruz"))
	assert.Equal(t, "Bob", models.TruncateName("Bob"))
	assert.Equal(t, "", models.TruncateName("  "))
}
