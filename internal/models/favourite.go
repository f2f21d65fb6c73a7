package models

import "time"

// Favourite links a school to a saved teacher. Saving is gated by current
// discoverability; the stored relation survives the teacher later hiding.
type Favourite struct {
	SchoolUserID  string    `db:"school_user_id" json:"-"`
	TeacherUserID string    `db:"teacher_user_id" json:"teacherUserId"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FavouriteSummary is the list projection for currently discoverable
// favourites.
type FavouriteSummary struct {
	TeacherUserID     string `json:"teacherUserId"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	TeachingLevel     string `json:"teaching_level"`
}
