package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// CountryRepository manages the supported-country configuration table.
type CountryRepository struct {
	db *sqlx.DB
}

// NewCountryRepository constructs a CountryRepository.
func NewCountryRepository(db *sqlx.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// List returns all country configs ordered by code.
func (r *CountryRepository) List(ctx context.Context) ([]models.CountryConfig, error) {
	const query = `SELECT country_code, currency_code, legal_url, pricing_json FROM country_configs ORDER BY country_code ASC`
	var rows []models.CountryConfig
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list country configs: %w", err)
	}
	return rows, nil
}

// Upsert creates or replaces a country config.
func (r *CountryRepository) Upsert(ctx context.Context, cfg *models.CountryConfig) error {
	const query = `INSERT INTO country_configs (country_code, currency_code, legal_url, pricing_json)
		VALUES (:country_code, :currency_code, :legal_url, :pricing_json)
		ON CONFLICT (country_code) DO UPDATE SET
			currency_code = EXCLUDED.currency_code,
			legal_url = EXCLUDED.legal_url,
			pricing_json = EXCLUDED.pricing_json`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert country config: %w", err)
	}
	return nil
}

// Delete removes a country config. It reports whether the row existed.
func (r *CountryRepository) Delete(ctx context.Context, countryCode string) (bool, error) {
	const query = `DELETE FROM country_configs WHERE country_code = $1`
	res, err := r.db.ExecContext(ctx, query, countryCode)
	if err != nil {
		return false, fmt.Errorf("delete country config: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete country config: %w", err)
	}
	return affected > 0, nil
}
