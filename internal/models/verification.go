package models

import "time"

// Credential verification types and statuses.
const (
	VerificationTeacherRegistration = "teacher_registration"
	VerificationWorkingWithChildren = "working_with_children"
	VerificationOther               = "other"

	VerificationSubmitted = "submitted"
	VerificationApproved  = "approved"
	VerificationRejected  = "rejected"
)

// CredentialVerification is one submitted credential check for a teacher.
type CredentialVerification struct {
	ID            string     `db:"id" json:"id"`
	TeacherUserID string     `db:"teacher_user_id" json:"-"`
	Type          string     `db:"type" json:"type"`
	Status        string     `db:"status" json:"status"`
	Notes         *string    `db:"notes" json:"notes"`
	SubmittedAt   time.Time  `db:"submitted_at" json:"submitted_at"`
	DecidedAt     *time.Time `db:"decided_at" json:"decided_at"`
}

// CreateVerificationRequest submits a credential for verification.
type CreateVerificationRequest struct {
	Type string `json:"type" validate:"required,oneof=teacher_registration working_with_children other"`
}

// DecideVerificationRequest records an admin decision on a submission.
type DecideVerificationRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes"`
}

// VerificationStatusEntry is the latest status for one credential type as
// shown on the gated detail view.
type VerificationStatusEntry struct {
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at"`
}
