package models

import "time"

// Phase selects the projection/ranking rules layered on top of the shared
// discoverability predicate. The predicate itself is phase-independent apart
// from the optional country constraint.
type Phase int

const (
	PhaseOne Phase = iota + 1
	PhaseTwo
	PhaseThree
)

// DiscoveryContext parameterises a single-teacher discoverability check.
// Date is the target availability date; CountryCode, when non-empty,
// additionally requires the teacher's location to match.
type DiscoveryContext struct {
	Date        time.Time
	CountryCode string
}

// ListQuery parameterises the bulk discovery listing. TeacherIDs, when
// non-empty, restricts the listing to those teachers; such a query is never
// truncated by the global result cap.
type ListQuery struct {
	Date           time.Time
	CountryCode    string
	OriginPostcode string
	MaxDistanceKm  float64
	Phase          Phase
	TeacherIDs     []string
}

// HasDistanceFilter reports whether a distance post-filter applies.
func (q ListQuery) HasDistanceFilter() bool {
	return q.OriginPostcode != "" && q.MaxDistanceKm > 0
}

// DiscoveryRow is the raw row produced by the set-oriented discovery query,
// prior to projection and ranking.
type DiscoveryRow struct {
	TeacherUserID    string     `db:"teacher_user_id"`
	Name             string     `db:"name"`
	ProfilePicture   string     `db:"profile_picture"`
	TeachingLevel    string     `db:"teaching_level"`
	CountryCode      string     `db:"country_code"`
	Postcode         string     `db:"postcode"`
	RadiusKm         int        `db:"radius_km"`
	Latitude         *float64   `db:"latitude"`
	Longitude        *float64   `db:"longitude"`
	BoostActiveUntil *time.Time `db:"boost_active_until"`
	Tier             *string    `db:"tier"`
}

// CandidateRow is the per-teacher row backing the single-entity predicate.
// Pointer fields are nil when the corresponding relation is absent.
type CandidateRow struct {
	TeacherUserID   string  `db:"teacher_user_id"`
	HasProfile      bool    `db:"has_profile"`
	CountryCode     *string `db:"country_code"`
	CalendarValue   *bool   `db:"calendar_value"`
	WeeklyValue     *bool   `db:"weekly_value"`
	HasValidSub     bool    `db:"has_valid_sub"`
}
