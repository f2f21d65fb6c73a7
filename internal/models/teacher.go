package models

import "strings"

// TeacherProfile holds the public profile a teacher fills in at registration.
type TeacherProfile struct {
	TeacherUserID       string `db:"teacher_user_id" json:"-"`
	Name                string `db:"name" json:"name"`
	TeachingLevel       string `db:"teaching_level" json:"teaching_level"`
	SubjectsSpecialties string `db:"subjects_specialties" json:"subjects_specialties"`
	YearsOfExperience   int    `db:"years_of_experience" json:"years_of_experience"`
	Qualifications      string `db:"qualifications" json:"qualifications"`
	ProfilePicture      string `db:"profile_picture" json:"profile_picture"`
}

// TeacherLocation anchors a teacher on the map. A teacher without a location
// row never appears in discovery results.
type TeacherLocation struct {
	TeacherUserID string   `db:"teacher_user_id" json:"-"`
	CountryCode   string   `db:"country_code" json:"country_code"`
	Postcode      string   `db:"postcode" json:"postcode"`
	RadiusKm      int      `db:"radius_km" json:"radius_km"`
	Latitude      *float64 `db:"latitude" json:"latitude"`
	Longitude     *float64 `db:"longitude" json:"longitude"`
}

// SummaryLocation is the location block projected into discovery lists.
type SummaryLocation struct {
	CountryCode string   `json:"country_code,omitempty"`
	Postcode    string   `json:"postcode"`
	RadiusKm    int      `json:"radius_km"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// TeacherSummary is a single entry in the ranked discovery list.
type TeacherSummary struct {
	TeacherUserID     string          `json:"teacherUserId"`
	Name              string          `json:"name"`
	ProfilePictureURL string          `json:"profile_picture_url"`
	TeachingLevel     string          `json:"teaching_level"`
	Location          SummaryLocation `json:"location"`
	IsBoosted         bool            `json:"is_boosted"`
	SubscriptionTier  string          `json:"subscription_tier,omitempty"`
	IsPriority        *bool           `json:"is_priority,omitempty"`
}

// TeacherContact is the contact block exposed on the gated detail view. The
// relay address hides the teacher's real email until a relay service exists.
type TeacherContact struct {
	EmailRelay   string  `json:"email_relay"`
	PhonePrimary *string `json:"phone_primary"`
}

// TeacherDetail is the full gated detail projection.
type TeacherDetail struct {
	TeacherUserID          string                     `json:"teacherUserId"`
	Profile                TeacherProfile             `json:"profile"`
	Subscription           *DetailSubscription        `json:"subscription,omitempty"`
	CredentialVerification *DetailVerificationSummary `json:"credential_verification,omitempty"`
	Contact                TeacherContact             `json:"contact"`
}

// DetailSubscription summarises tier standing on the country-aware detail view.
type DetailSubscription struct {
	Tier       string `json:"tier"`
	IsPriority bool   `json:"is_priority"`
	IsBoosted  bool   `json:"is_boosted"`
}

// DetailVerificationSummary lists the latest verification per credential type.
type DetailVerificationSummary struct {
	LatestByType []VerificationStatusEntry `json:"latest_by_type"`
}

// TruncateName reduces a full name to "First L." for the minimal-disclosure
// list view. Single-token names pass through unchanged.
func TruncateName(fullName string) string {
	parts := strings.Fields(strings.TrimSpace(fullName))
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	last := parts[len(parts)-1]
	return parts[0] + " " + last[:1] + "."
}
