package models

import "time"

// WeeklyAvailability is the recurring per-weekday default. Exactly one row
// exists per teacher per day after registration.
type WeeklyAvailability struct {
	TeacherUserID string `db:"teacher_user_id" json:"-"`
	DayOfWeek     int    `db:"day_of_week" json:"day_of_week"`
	IsAvailable   bool   `db:"is_available" json:"is_available"`
}

// CalendarEntry is a date-specific override. When present it is authoritative
// for that date regardless of the weekly default.
type CalendarEntry struct {
	TeacherUserID string    `db:"teacher_user_id" json:"-"`
	Date          time.Time `db:"date" json:"date"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
}

// CalendarDateInput is one date toggle in a calendar batch upsert.
type CalendarDateInput struct {
	Date        string `json:"date" validate:"required"`
	IsAvailable bool   `json:"is_available"`
}

// CalendarUpsertRequest is the batch payload for the calendar PUT endpoint.
// The batch applies all-or-nothing.
type CalendarUpsertRequest struct {
	Dates []CalendarDateInput `json:"dates" validate:"required,min=1,dive"`
}

// CalendarEntryView is the wire shape of a calendar entry.
type CalendarEntryView struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

// View projects a calendar entry into its wire shape.
func (e CalendarEntry) View() CalendarEntryView {
	return CalendarEntryView{Date: FormatISODate(e.Date), IsAvailable: e.IsAvailable}
}

// ISODayOfWeek converts a time to the ISO weekday convention used across the
// availability tables: Monday=1 .. Sunday=7.
func ISODayOfWeek(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateOnly truncates a time to its UTC calendar date, which is how calendar
// entries are keyed.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseISODate parses a YYYY-MM-DD string into a UTC date.
func ParseISODate(raw string) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FormatISODate renders a date as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
