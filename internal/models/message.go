package models

import "time"

// Message is a direct message between two users. School-to-teacher sends are
// gated by the discoverability predicate; all other pairings are not.
type Message struct {
	ID         string     `db:"id" json:"id"`
	SenderID   string     `db:"sender_id" json:"sender_id"`
	ReceiverID string     `db:"receiver_id" json:"receiver_id"`
	Content    string     `db:"content" json:"content"`
	ReadAt     *time.Time `db:"read_at" json:"read_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// SendMessageRequest is the message-send payload. CountryCode is mandatory
// for school-to-teacher sends and ignored for every other pairing.
type SendMessageRequest struct {
	ReceiverID  string  `json:"receiver_id" validate:"required,uuid"`
	Content     string  `json:"content" validate:"required,max=5000"`
	CountryCode *string `json:"country_code" validate:"omitempty,len=2"`
}
