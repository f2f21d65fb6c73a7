package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

const countryConfigsCacheKey = "country_configs"

type countryRepository interface {
	List(ctx context.Context) ([]models.CountryConfig, error)
	Upsert(ctx context.Context, cfg *models.CountryConfig) error
	Delete(ctx context.Context, countryCode string) (bool, error)
}

type countryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CountryService serves the supported-country configurations. Configs
// change rarely and never feed the per-request discoverability decision,
// so this is the one read path that goes through the cache.
type CountryService struct {
	repo      countryRepository
	cache     countryCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewCountryService constructs a CountryService instance. The cache is
// optional; a nil cache means every read hits the database.
func NewCountryService(repo countryRepository, cache countryCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *CountryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CountryService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns all country configurations, cache-first.
func (s *CountryService) List(ctx context.Context) ([]models.CountryConfig, error) {
	if s.cache != nil {
		var cached []models.CountryConfig
		if err := s.cache.Get(ctx, countryConfigsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list country configs")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, countryConfigsCacheKey, configs, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache country configs", zap.Error(err))
		}
	}
	return configs, nil
}

// Upsert creates or replaces a country configuration and invalidates the
// cached listing.
func (s *CountryService) Upsert(ctx context.Context, req models.UpsertCountryConfigRequest) (*models.CountryConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid country config payload")
	}

	cfg := &models.CountryConfig{
		CountryCode:  normalizeCountryCode(req.CountryCode),
		CurrencyCode: req.CurrencyCode,
		LegalURL:     req.LegalURL,
		PricingJSON:  req.PricingJSON,
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert country config")
	}
	s.invalidate(ctx)
	return cfg, nil
}

// Delete removes a country configuration.
func (s *CountryService) Delete(ctx context.Context, countryCode string) error {
	existed, err := s.repo.Delete(ctx, normalizeCountryCode(countryCode))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete country config")
	}
	if !existed {
		return appErrors.ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *CountryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, countryConfigsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate country config cache", zap.Error(err))
	}
}
