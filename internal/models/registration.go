package models

// TeacherProfileInput is the profile section of the registration wizard.
type TeacherProfileInput struct {
	Name                string `json:"name" validate:"required"`
	TeachingLevel       string `json:"teaching_level" validate:"required"`
	SubjectsSpecialties string `json:"subjects_specialties" validate:"required"`
	YearsOfExperience   int    `json:"years_of_experience" validate:"gte=0"`
	Qualifications      string `json:"qualifications" validate:"required"`
	ProfilePicture      string `json:"profile_picture" validate:"required"`
}

// TeacherLocationInput is the location section of the registration wizard.
type TeacherLocationInput struct {
	CountryCode string `json:"country_code" validate:"required,len=2"`
	Postcode    string `json:"postcode" validate:"required"`
	RadiusKm    int    `json:"radius_km" validate:"gt=0"`
}

// WeeklyAvailabilityInput is the per-weekday toggle block submitted at
// registration.
type WeeklyAvailabilityInput struct {
	Mon bool `json:"mon"`
	Tue bool `json:"tue"`
	Wed bool `json:"wed"`
	Thu bool `json:"thu"`
	Fri bool `json:"fri"`
	Sat bool `json:"sat"`
	Sun bool `json:"sun"`
}

// Rows expands the toggle block into one row per ISO weekday.
func (w WeeklyAvailabilityInput) Rows() []WeeklyAvailability {
	days := []bool{w.Mon, w.Tue, w.Wed, w.Thu, w.Fri, w.Sat, w.Sun}
	rows := make([]WeeklyAvailability, 0, len(days))
	for i, available := range days {
		rows = append(rows, WeeklyAvailability{DayOfWeek: i + 1, IsAvailable: available})
	}
	return rows
}

// RegisterTeacherRequest is the full registration wizard payload.
type RegisterTeacherRequest struct {
	Email              string                  `json:"email" validate:"required,email"`
	Password           string                  `json:"password" validate:"required,min=8"`
	PhonePrimary       *string                 `json:"phone_primary"`
	Profile            TeacherProfileInput     `json:"profile" validate:"required"`
	Location           TeacherLocationInput    `json:"location" validate:"required"`
	WeeklyAvailability WeeklyAvailabilityInput `json:"weekly_availability"`
}

// RegisteredTeacher echoes the stored records back to a newly registered
// teacher, with the discoverability snapshot for today.
type RegisteredTeacher struct {
	ID                  string               `json:"id"`
	Email               string               `json:"email"`
	PhonePrimary        *string              `json:"phone_primary"`
	Profile             TeacherProfile       `json:"profile"`
	Location            TeacherLocation      `json:"location"`
	WeeklyAvailability  []WeeklyAvailability `json:"weekly_availability"`
	IsDiscoverableToday bool                 `json:"is_discoverable_today"`
	IsAvailableToday    bool                 `json:"is_available_today"`
}

// RegisterTeacherResponse is returned by the registration endpoint.
type RegisterTeacherResponse struct {
	AccessToken string            `json:"access_token"`
	Teacher     RegisteredTeacher `json:"teacher"`
}

// RegisterSchoolRequest creates a school account.
type RegisterSchoolRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	PhonePrimary *string `json:"phone_primary"`
}

// RegisterSchoolResponse is returned by the school registration endpoint.
type RegisterSchoolResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}
