package models

import "time"

// Subscription tiers.
const (
	TierBasic = "basic"
	TierPro   = "pro"
	TierFree  = "free"
)

// Subscription is one billing-period row in a teacher's subscription history.
// Visibility is computed across all rows, never stored.
type Subscription struct {
	ID                   string     `db:"id" json:"id"`
	TeacherUserID        string     `db:"teacher_user_id" json:"-"`
	Tier                 string     `db:"tier" json:"tier"`
	CountryCode          *string    `db:"country_code" json:"country_code"`
	CurrencyCode         *string    `db:"currency_code" json:"currency_code"`
	CurrentPeriodEndAt   time.Time  `db:"current_period_end_at" json:"current_period_end_at"`
	GracePeriodEndAt     time.Time  `db:"grace_period_end_at" json:"grace_period_end_at"`
	OverrideVisibleUntil *time.Time `db:"override_visible_until" json:"override_visible_until"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}

// CoversAt reports whether this single row grants visibility at the given
// instant. Both boundaries are inclusive.
func (s Subscription) CoversAt(now time.Time) bool {
	if !now.After(s.GracePeriodEndAt) {
		return true
	}
	return s.OverrideVisibleUntil != nil && !now.After(*s.OverrideVisibleUntil)
}

// SubscriptionFlags carries the boost flag. Boost only affects ranking, never
// discoverability.
type SubscriptionFlags struct {
	TeacherUserID    string     `db:"teacher_user_id" json:"-"`
	BoostActiveUntil *time.Time `db:"boost_active_until" json:"boost_active_until"`
}

// BoostActiveAt reports whether boost is live at the given instant.
func (f SubscriptionFlags) BoostActiveAt(now time.Time) bool {
	return f.BoostActiveUntil != nil && !now.After(*f.BoostActiveUntil)
}

// BoostStatus is the wire shape of the boost flag.
type BoostStatus struct {
	Enabled     bool       `json:"enabled"`
	ActiveUntil *time.Time `json:"active_until"`
}

// SubscriptionSnapshot pairs a subscription row with the discoverability
// snapshot for today, as returned by the subscribe and me endpoints.
type SubscriptionSnapshot struct {
	Subscription        Subscription `json:"subscription"`
	IsAvailableToday    bool         `json:"is_available_today"`
	IsDiscoverableToday bool         `json:"is_discoverable_today"`
}

// SchoolSubscription mirrors the teacher subscription shape for school
// accounts. Schools are not discoverable, so only tier reporting uses it.
type SchoolSubscription struct {
	ID                 string    `db:"id" json:"id"`
	SchoolUserID       string    `db:"school_user_id" json:"-"`
	Tier               string    `db:"tier" json:"tier"`
	CountryCode        *string   `db:"country_code" json:"country_code"`
	CurrencyCode       *string   `db:"currency_code" json:"currency_code"`
	CurrentPeriodEndAt time.Time `db:"current_period_end_at" json:"current_period_end_at"`
	GracePeriodEndAt   time.Time `db:"grace_period_end_at" json:"grace_period_end_at"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
