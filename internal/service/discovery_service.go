package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
	"github.com/relieftech/marketplace-api/pkg/geo"
)

// originSalt is the fixed geocoding salt for the searching school's origin
// postcode; teacher postcodes are salted with the teacher's own id.
const originSalt = "origin"

type discoveryRepository interface {
	ListDiscoverable(ctx context.Context, date time.Time, now time.Time, countryCode string, teacherIDs []string) ([]models.DiscoveryRow, error)
	FindCandidate(ctx context.Context, teacherUserID string, date time.Time, now time.Time) (*models.CandidateRow, error)
}

type discoveryTeacherRepository interface {
	FindActiveTeacher(ctx context.Context, teacherUserID string) (*models.User, error)
	FindProfile(ctx context.Context, teacherUserID string) (*models.TeacherProfile, error)
}

type discoveryStandingRepository interface {
	FindLatest(ctx context.Context, teacherUserID string) (*models.Subscription, error)
	FindFlags(ctx context.Context, teacherUserID string) (*models.SubscriptionFlags, error)
}

type discoveryVerificationRepository interface {
	ListByTeacher(ctx context.Context, teacherUserID string) ([]models.CredentialVerification, error)
}

// DiscoveryService implements the discoverability predicate, the bulk
// ranked listing and the gated detail view. Results are never cached:
// every call reflects current wall-clock time and current data.
type DiscoveryService struct {
	repo          discoveryRepository
	teachers      discoveryTeacherRepository
	standing      discoveryStandingRepository
	verifications discoveryVerificationRepository
	logger        *zap.Logger
	maxResults    int
}

// NewDiscoveryService constructs a DiscoveryService instance.
func NewDiscoveryService(repo discoveryRepository, teachers discoveryTeacherRepository, standing discoveryStandingRepository, verifications discoveryVerificationRepository, logger *zap.Logger, maxResults int) *DiscoveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryService{
		repo:          repo,
		teachers:      teachers,
		standing:      standing,
		verifications: verifications,
		logger:        logger,
		maxResults:    maxResults,
	}
}

func normalizeCountryCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsDiscoverable evaluates the full predicate for one teacher: active
// teacher account, profile and location present, country match when asked
// for, effective availability on the date, and a currently valid
// subscription.
func (s *DiscoveryService) IsDiscoverable(ctx context.Context, teacherUserID string, dctx models.DiscoveryContext) (bool, error) {
	now := time.Now().UTC()
	row, err := s.repo.FindCandidate(ctx, teacherUserID, models.DateOnly(dctx.Date), now)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate candidate")
	}
	if row == nil {
		return false, nil
	}
	return evaluateCandidate(row, normalizeCountryCode(dctx.CountryCode)), nil
}

// evaluateCandidate applies the predicate to a loaded candidate row. The
// calendar override wins outright when present; the weekly default applies
// otherwise; a teacher with neither is unavailable.
func evaluateCandidate(row *models.CandidateRow, countryCode string) bool {
	if !row.HasProfile || row.CountryCode == nil {
		return false
	}
	if countryCode != "" && normalizeCountryCode(*row.CountryCode) != countryCode {
		return false
	}
	available := false
	switch {
	case row.CalendarValue != nil:
		available = *row.CalendarValue
	case row.WeeklyValue != nil:
		available = *row.WeeklyValue
	}
	return available && row.HasValidSub
}

// List returns the ranked discovery listing for a query. The pipeline is
// fixed: set-oriented discoverability query, then the optional distance
// post-filter, then ranking. Distance never widens the discoverable set.
func (s *DiscoveryService) List(ctx context.Context, q models.ListQuery) ([]models.TeacherSummary, error) {
	now := time.Now().UTC()
	date := models.DateOnly(q.Date)
	country := normalizeCountryCode(q.CountryCode)

	rows, err := s.repo.ListDiscoverable(ctx, date, now, country, q.TeacherIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list discoverable teachers")
	}

	if q.HasDistanceFilter() {
		rows = filterByDistance(rows, q.OriginPostcode, q.MaxDistanceKm)
	}

	summaries := make([]models.TeacherSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, projectSummary(row, q.Phase, now))
	}
	rankSummaries(summaries, q.Phase)

	// The result cap runs after ranking so a boosted or priority teacher is
	// never squeezed out by lower-id unranked rows. Queries restricted to a
	// fixed id set are already bounded and stay uncapped: their membership
	// must match the per-teacher predicate exactly.
	if s.maxResults > 0 && len(q.TeacherIDs) == 0 && len(summaries) > s.maxResults {
		summaries = summaries[:s.maxResults]
	}
	return summaries, nil
}

// filterByDistance keeps teachers whose deterministic postcode coordinates
// fall within maxKm (inclusive) of the origin.
func filterByDistance(rows []models.DiscoveryRow, originPostcode string, maxKm float64) []models.DiscoveryRow {
	origin := geo.Geocode(originPostcode, originSalt)
	kept := rows[:0]
	for _, row := range rows {
		point := geo.Geocode(row.Postcode, row.TeacherUserID)
		if geo.HaversineKm(origin, point) <= maxKm {
			kept = append(kept, row)
		}
	}
	return kept
}

func projectSummary(row models.DiscoveryRow, phase models.Phase, now time.Time) models.TeacherSummary {
	boosted := row.BoostActiveUntil != nil && !now.After(*row.BoostActiveUntil)

	summary := models.TeacherSummary{
		TeacherUserID:     row.TeacherUserID,
		Name:              row.Name,
		ProfilePictureURL: row.ProfilePicture,
		TeachingLevel:     row.TeachingLevel,
		Location: models.SummaryLocation{
			Postcode: row.Postcode,
			RadiusKm: row.RadiusKm,
		},
		IsBoosted: boosted,
	}

	switch phase {
	case models.PhaseOne:
		summary.Name = models.TruncateName(row.Name)
	case models.PhaseThree:
		tier := models.TierBasic
		if row.Tier != nil {
			tier = *row.Tier
		}
		priority := tier == models.TierPro
		summary.Location.CountryCode = row.CountryCode
		summary.SubscriptionTier = tier
		summary.IsPriority = &priority
	}
	return summary
}

// rankSummaries orders a listing deterministically. Phase 3 sorts on boost
// then priority with teacherUserId as the final tiebreak; earlier phases
// only partition boosted teachers to the front, preserving the incoming
// id-ascending order within each partition.
func rankSummaries(summaries []models.TeacherSummary, phase models.Phase) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.IsBoosted != b.IsBoosted {
			return a.IsBoosted
		}
		if phase == models.PhaseThree {
			ap := a.IsPriority != nil && *a.IsPriority
			bp := b.IsPriority != nil && *b.IsPriority
			if ap != bp {
				return ap
			}
		}
		return false
	})
}

// Detail returns the gated detail view. A teacher that is not discoverable
// in the given context yields the same not-found outcome as a teacher that
// does not exist at all; callers must not be able to tell the two apart.
func (s *DiscoveryService) Detail(ctx context.Context, teacherUserID string, dctx models.DiscoveryContext, phase models.Phase) (*models.TeacherDetail, error) {
	discoverable, err := s.IsDiscoverable(ctx, teacherUserID, dctx)
	if err != nil {
		return nil, err
	}
	if !discoverable {
		return nil, appErrors.ErrNotFound
	}

	user, err := s.teachers.FindActiveTeacher(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}
	profile, err := s.teachers.FindProfile(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}

	detail := &models.TeacherDetail{
		TeacherUserID: teacherUserID,
		Profile:       *profile,
		Contact: models.TeacherContact{
			EmailRelay:   fmt.Sprintf("teacher+%s@relay.invalid", teacherUserID),
			PhonePrimary: user.PhonePrimary,
		},
	}

	if phase == models.PhaseThree {
		if err := s.attachStanding(ctx, teacherUserID, detail); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *DiscoveryService) attachStanding(ctx context.Context, teacherUserID string, detail *models.TeacherDetail) error {
	now := time.Now().UTC()

	tier := models.TierBasic
	sub, err := s.standing.FindLatest(ctx, teacherUserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subscription")
	}
	if sub != nil {
		tier = sub.Tier
	}

	flags, err := s.standing.FindFlags(ctx, teacherUserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch boost flags")
	}
	boosted := flags != nil && flags.BoostActiveAt(now)

	detail.Subscription = &models.DetailSubscription{
		Tier:       tier,
		IsPriority: tier == models.TierPro,
		IsBoosted:  boosted,
	}

	verifications, err := s.verifications.ListByTeacher(ctx, teacherUserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch verifications")
	}

	// Rows arrive newest-first; keep the first row seen per type.
	seen := make(map[string]struct{}, len(verifications))
	latest := make([]models.VerificationStatusEntry, 0, len(verifications))
	for _, v := range verifications {
		if _, ok := seen[v.Type]; ok {
			continue
		}
		seen[v.Type] = struct{}{}
		submitted := v.SubmittedAt
		latest = append(latest, models.VerificationStatusEntry{
			Type:        v.Type,
			Status:      v.Status,
			SubmittedAt: &submitted,
			DecidedAt:   v.DecidedAt,
		})
	}
	detail.CredentialVerification = &models.DetailVerificationSummary{LatestByType: latest}
	return nil
}
