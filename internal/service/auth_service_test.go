package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/repository"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail    *models.User
	createdTeacher *models.User
	createdProfile *models.TeacherProfile
	createdWeekly  []models.WeeklyAvailability
	createdSchool  *models.User
	createErr      error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile, location *models.TeacherLocation, weekly []models.WeeklyAvailability) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdTeacher = user
	m.createdProfile = profile
	m.createdWeekly = weekly
	return nil
}

func (m *mockAuthRepo) CreateSchool(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdSchool = user
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "secret", Issuer: "relief-marketplace", Expiration: time.Hour}
}

func registerTeacherRequest() models.RegisterTeacherRequest {
	return models.RegisterTeacherRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Profile: models.TeacherProfileInput{
			Name:                "Alice Wong",
			TeachingLevel:       "primary",
			SubjectsSpecialties: "mathematics",
			YearsOfExperience:   5,
			Qualifications:      "BEd",
			ProfilePicture:      "https://cdn.example.com/alice.jpg",
		},
		Location: models.TeacherLocationInput{
			CountryCode: "au",
			Postcode:    "2000",
			RadiusKm:    25,
		},
		WeeklyAvailability: models.WeeklyAvailabilityInput{
			Mon: true, Tue: true, Wed: true, Thu: true, Fri: true, Sat: true, Sun: true,
		},
	}
}

func TestRegisterTeacherSuccess(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	res, err := svc.RegisterTeacher(context.Background(), registerTeacherRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	require.NotNil(t, repo.createdTeacher)
	assert.Equal(t, models.RoleTeacher, repo.createdTeacher.Role)
	assert.Equal(t, models.AccountActive, repo.createdTeacher.AccountStatus)
	assert.NotEqual(t, "password123", repo.createdTeacher.PasswordHash)
	require.Len(t, repo.createdWeekly, 7)
	assert.Equal(t, 1, repo.createdWeekly[0].DayOfWeek)
	assert.Equal(t, 7, repo.createdWeekly[6].DayOfWeek)

	// Country codes are stored uppercase.
	assert.Equal(t, "AU", res.Teacher.Location.CountryCode)

	// No subscription exists yet, so the snapshot can never be discoverable.
	assert.False(t, res.Teacher.IsDiscoverableToday)
	assert.True(t, res.Teacher.IsAvailableToday)
}

func TestRegisterTeacherDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{createErr: repository.ErrDuplicateEmail}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.RegisterTeacher(context.Background(), registerTeacherRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrEmailInUse.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrEmailInUse.Status, appErr.Status)
}

func TestRegisterTeacherValidation(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), testAuthConfig())

	req := registerTeacherRequest()
	req.Password = "short"
	_, err := svc.RegisterTeacher(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = registerTeacherRequest()
	req.Location.CountryCode = "AUS"
	_, err = svc.RegisterTeacher(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterSchoolSuccess(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	res, err := svc.RegisterSchool(context.Background(), models.RegisterSchoolRequest{
		Email:    "school@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	require.NotNil(t, repo.createdSchool)
	assert.Equal(t, models.RoleSchool, repo.createdSchool.Role)
	assert.Equal(t, models.RoleSchool, res.User.Role)
}

func TestLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:            "u1",
		Role:          models.RoleTeacher,
		AccountStatus: models.AccountActive,
		Email:         "alice@example.com",
		PasswordHash:  string(hash),
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "u1", res.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	repo := &mockAuthRepo{userByEmail: &models.User{
		AccountStatus: models.AccountActive,
		Email:         "alice@example.com",
		PasswordHash:  string(hash),
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginSuspendedAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	repo := &mockAuthRepo{userByEmail: &models.User{
		AccountStatus: models.AccountSuspended,
		Email:         "alice@example.com",
		PasswordHash:  string(hash),
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), testAuthConfig())
	user := &models.User{ID: "u1", Role: models.RoleSchool}

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleSchool, claims.Role)
	assert.Equal(t, "relief-marketplace", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuing := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), testAuthConfig())
	token, err := issuing.generateAccessToken(&models.User{ID: "u1", Role: models.RoleTeacher})
	require.NoError(t, err)

	verifying := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), AuthConfig{Secret: "other", Issuer: "relief-marketplace", Expiration: time.Hour})
	_, err = verifying.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
