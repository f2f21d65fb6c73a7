package models

import "time"

// EnterpriseMemberRole enumerates the roles a school account can hold inside
// an enterprise group.
type EnterpriseMemberRole string

const (
	EnterpriseMemberAdmin   EnterpriseMemberRole = "admin"
	EnterpriseMemberRegular EnterpriseMemberRole = "member"
)

// EnterpriseSchool is a multi-school account grouping.
type EnterpriseSchool struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	BillingEmail string    `db:"billing_email" json:"billing_email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EnterpriseSummary aggregates activity across a group's member schools.
type EnterpriseSummary struct {
	EnterpriseSchoolID string `json:"enterprise_school_id"`
	MemberCount        int    `json:"member_count"`
	FavouritesCount    int    `json:"favourites_count"`
	NotificationsCount int    `json:"notifications_count"`
}

// BatchNotifyRequest fans a notification out to every member school.
type BatchNotifyRequest struct {
	Type NotificationType `json:"type" validate:"omitempty,oneof=job_alert system_alert"`
}

// CreateEnterpriseSchoolRequest creates an enterprise grouping.
type CreateEnterpriseSchoolRequest struct {
	Name         string `json:"name" validate:"required"`
	BillingEmail string `json:"billing_email" validate:"required,email"`
}

// UpsertEnterpriseMemberRequest adds or updates a member school.
type UpsertEnterpriseMemberRequest struct {
	MemberRole EnterpriseMemberRole `json:"member_role" validate:"required,oneof=admin member"`
}

// EnterpriseMember links a school user to an enterprise group.
type EnterpriseMember struct {
	EnterpriseSchoolID string               `db:"enterprise_school_id" json:"-"`
	SchoolUserID       string               `db:"school_user_id" json:"school_user_id"`
	MemberRole         EnterpriseMemberRole `db:"member_role" json:"member_role"`
}
