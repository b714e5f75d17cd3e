package services

import (
	"testing"
	"time"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authTestEnv struct {
	service     AuthService
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	emails      *fakeEmailProvider
	db          *gorm.DB
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	emails := &fakeEmailProvider{}
	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)

	service := NewAuthService(
		userRepo,
		refreshRepo,
		emails,
		tokens,
		time.Hour,
		30*time.Minute,
		7*24*time.Hour,
	)

	return &authTestEnv{
		service:     service,
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		emails:      emails,
		db:          db,
	}
}

func (e *authTestEnv) register(t *testing.T, emailAddr string) *models.User {
	t.Helper()

	err := e.service.Register(&dto.RegisterRequest{
		Name:     "Test User",
		Email:    emailAddr,
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := e.userRepo.FindByEmail(emailAddr)
	require.NoError(t, err)
	return user
}

func (e *authTestEnv) registerVerified(t *testing.T, emailAddr string) *models.User {
	t.Helper()

	user := e.register(t, emailAddr)
	require.NoError(t, e.service.VerifyEmail(user.VerificationToken))

	user, err := e.userRepo.FindByEmail(emailAddr)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	env := newAuthTestEnv(t)

	user := env.register(t, "alice@example.com")

	assert.False(t, user.Verified)
	assert.False(t, user.Blocked)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.NotEmpty(t, user.VerificationToken)
	require.NotNil(t, user.VerificationTokenExpiry)
	assert.True(t, user.VerificationTokenExpiry.After(time.Now()))
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthTestEnv(t)
	env.register(t, "alice@example.com")

	err := env.service.Register(&dto.RegisterRequest{
		Name:     "Second Alice",
		Email:    "alice@example.com",
		Password: "different456",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)

	// the original account is untouched
	user, findErr := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, findErr)
	assert.Equal(t, "Test User", user.Name)
}

func TestRegisterWeakPassword(t *testing.T) {
	env := newAuthTestEnv(t)

	err := env.service.Register(&dto.RegisterRequest{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = env.userRepo.FindByEmail("short@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestVerifyEmail(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.register(t, "alice@example.com")

	require.NoError(t, env.service.VerifyEmail(user.VerificationToken))

	verified, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Nil(t, verified.VerificationTokenExpiry)
}

func TestVerifyEmailRepeatIsNoOp(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.register(t, "alice@example.com")

	require.NoError(t, env.service.VerifyEmail(user.VerificationToken))
	// clicking the same link again succeeds without changing anything
	require.NoError(t, env.service.VerifyEmail(user.VerificationToken))

	verified, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	env := newAuthTestEnv(t)
	env.register(t, "alice@example.com")

	err := env.service.VerifyEmail("no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.register(t, "alice@example.com")

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.userRepo.SetVerificationToken(user.Email, user.VerificationToken, expired))

	// rejected on every presentation, not just the first
	for i := 0; i < 2; i++ {
		err := env.service.VerifyEmail(user.VerificationToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	}

	unverified, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.False(t, unverified.Verified)
}

func TestLogin(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	resp, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	_, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newAuthTestEnv(t)

	_, err := env.service.Login(&dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnverified(t *testing.T) {
	env := newAuthTestEnv(t)
	env.register(t, "alice@example.com")

	_, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotVerified)
}

func TestLoginBlocked(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.registerVerified(t, "alice@example.com")
	require.NoError(t, env.userRepo.SetBlocked(user.Email, true))

	_, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserBlocked)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	first, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	second, err := env.service.RefreshToken(first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the old refresh token was rotated out
	_, err = env.service.RefreshToken(first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshTokenExpired(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.registerVerified(t, "alice@example.com")

	stale := &models.RefreshToken{
		UserEmail: user.Email,
		Token:     "stale-refresh-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.refreshRepo.Create(stale))

	_, err := env.service.RefreshToken("stale-refresh-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// expired tokens are purged on presentation
	_, err = env.refreshRepo.FindByToken("stale-refresh-token")
	assert.ErrorIs(t, err, repositories.ErrRefreshTokenNotFound)
}

func TestLogout(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	resp, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(resp.RefreshToken))

	_, err = env.service.RefreshToken(resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// logging out twice is fine
	assert.NoError(t, env.service.Logout(resp.RefreshToken))
}

func TestRequestPasswordReset(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))

	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpiry)
	assert.True(t, user.ResetTokenExpiry.After(time.Now()))
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	env := newAuthTestEnv(t)

	// no account probing: unknown addresses succeed silently
	require.NoError(t, env.service.RequestPasswordReset("ghost@example.com"))
	assert.Equal(t, 0, env.emails.count())
}

func TestRequestPasswordResetOverwritesPrevious(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))
	first, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)

	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))
	second, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ResetToken, second.ResetToken)

	// only the latest token works
	assert.ErrorIs(t, env.service.ResetPassword(first.ResetToken, "newpassword1"), apperrors.ErrInvalidToken)
	assert.NoError(t, env.service.ResetPassword(second.ResetToken, "newpassword1"))
}

func TestResetPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")
	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))

	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)

	require.NoError(t, env.service.ResetPassword(user.ResetToken, "brandnewpass1"))

	// new password works, old one does not
	_, err = env.service.Login(&dto.LoginRequest{Email: user.Email, Password: "brandnewpass1"})
	assert.NoError(t, err)
	_, err = env.service.Login(&dto.LoginRequest{Email: user.Email, Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// the token was consumed
	err = env.service.ResetPassword(user.ResetToken, "anotherpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newAuthTestEnv(t)
	user := env.registerVerified(t, "alice@example.com")

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.userRepo.SetResetToken(user.Email, "expired-reset-token", expired))

	err := env.service.ResetPassword("expired-reset-token", "brandnewpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// password unchanged
	_, err = env.service.Login(&dto.LoginRequest{Email: user.Email, Password: "password123"})
	assert.NoError(t, err)
}

func TestResetPasswordDropsSessions(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	resp, err := env.service.Login(&dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))
	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NoError(t, env.service.ResetPassword(user.ResetToken, "brandnewpass1"))

	_, err = env.service.RefreshToken(resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")
	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))

	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)

	err = env.service.ResetPassword(user.ResetToken, "tiny")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestChangePassword(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	require.NoError(t, env.service.ChangePassword("alice@example.com", "password123", "replacement1"))

	_, err := env.service.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "replacement1"})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerVerified(t, "alice@example.com")

	err := env.service.ChangePassword("alice@example.com", "nottherightone", "replacement1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
