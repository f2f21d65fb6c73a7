package models

// CountryConfig is one supported-country row maintained by admins. The
// discovery layer only consumes the set of valid country codes.
type CountryConfig struct {
	CountryCode  string  `db:"country_code" json:"country_code"`
	CurrencyCode string  `db:"currency_code" json:"currency_code"`
	LegalURL     *string `db:"legal_url" json:"legal_url"`
	PricingJSON  *string `db:"pricing_json" json:"pricing_json"`
}

// UpsertCountryConfigRequest is the admin payload for creating or replacing a
// country configuration.
type UpsertCountryConfigRequest struct {
	CountryCode  string  `json:"country_code" validate:"required,len=2"`
	CurrencyCode string  `json:"currency_code" validate:"required,len=3"`
	LegalURL     *string `json:"legal_url" validate:"omitempty,url"`
	PricingJSON  *string `json:"pricing_json"`
}
