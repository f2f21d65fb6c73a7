package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/repository"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

const bcryptCost = 12

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile, location *models.TeacherLocation, weekly []models.WeeklyAvailability) error
	CreateSchool(ctx context.Context, user *models.User) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// AuthService provides registration and authentication use cases.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// RegisterTeacher creates a teacher account with its profile, location and
// weekly availability in a single transaction. New teachers have no
// subscription row, so they are never discoverable until they subscribe.
func (s *AuthService) RegisterTeacher(ctx context.Context, req models.RegisterTeacherRequest) (*models.RegisterTeacherResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            uuid.NewString(),
		Role:          models.RoleTeacher,
		AccountStatus: models.AccountActive,
		Email:         req.Email,
		PhonePrimary:  req.PhonePrimary,
		PasswordHash:  string(hash),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	profile := &models.TeacherProfile{
		TeacherUserID:       user.ID,
		Name:                req.Profile.Name,
		TeachingLevel:       req.Profile.TeachingLevel,
		SubjectsSpecialties: req.Profile.SubjectsSpecialties,
		YearsOfExperience:   req.Profile.YearsOfExperience,
		Qualifications:      req.Profile.Qualifications,
		ProfilePicture:      req.Profile.ProfilePicture,
	}
	location := &models.TeacherLocation{
		TeacherUserID: user.ID,
		CountryCode:   normalizeCountryCode(req.Location.CountryCode),
		Postcode:      req.Location.Postcode,
		RadiusKm:      req.Location.RadiusKm,
	}
	weekly := req.WeeklyAvailability.Rows()
	for i := range weekly {
		weekly[i].TeacherUserID = user.ID
	}

	if err := s.repo.CreateTeacher(ctx, user, profile, location, weekly); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrEmailInUse, "email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	availableToday := false
	today := models.ISODayOfWeek(now)
	for _, row := range weekly {
		if row.DayOfWeek == today {
			availableToday = row.IsAvailable
		}
	}

	return &models.RegisterTeacherResponse{
		AccessToken: token,
		Teacher: models.RegisteredTeacher{
			ID:                  user.ID,
			Email:               user.Email,
			PhonePrimary:        user.PhonePrimary,
			Profile:             *profile,
			Location:            *location,
			WeeklyAvailability:  weekly,
			IsDiscoverableToday: false,
			IsAvailableToday:    availableToday,
		},
	}, nil
}

// RegisterSchool creates a school account.
func (s *AuthService) RegisterSchool(ctx context.Context, req models.RegisterSchoolRequest) (*models.RegisterSchoolResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            uuid.NewString(),
		Role:          models.RoleSchool,
		AccountStatus: models.AccountActive,
		Email:         req.Email,
		PhonePrimary:  req.PhonePrimary,
		PasswordHash:  string(hash),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateSchool(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrEmailInUse, "email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.RegisterSchoolResponse{
		AccessToken: token,
		User:        models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.AccountStatus != models.AccountActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		User:        models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
