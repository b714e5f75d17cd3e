package services

import (
	"time"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/email"
	"omnisnt_backend/internal/logger"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services/dto"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	ChangePassword(userEmail, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	tokens           *auth.TokenManager

	verificationTTL time.Duration
	resetTTL        time.Duration
	refreshTTL      time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	tokens *auth.TokenManager,
	verificationTTL, resetTTL, refreshTTL time.Duration,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		tokens:           tokens,
		verificationTTL:  verificationTTL,
		resetTTL:         resetTTL,
		refreshTTL:       refreshTTL,
	}
}

// Register creates the account and issues a verification token. The
// verification email goes out fire-and-forget: a delivery failure is
// logged (and audited by the provider) but the committed account stays.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	verificationToken := auth.NewRandomToken()
	expiry := time.Now().Add(s.verificationTTL)

	user := &models.User{
		Email:                   req.Email,
		PasswordHash:            hashedPassword,
		Name:                    req.Name,
		Profession:              req.Profession,
		Role:                    models.UserRoleUser,
		Verified:                false,
		Blocked:                 false,
		VerificationToken:       verificationToken,
		VerificationTokenExpiry: &expiry,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailExists
		}
		return apperrors.InternalError(err)
	}

	s.sendVerificationEmail(user.Email, verificationToken)

	return nil
}

// Login checks credentials, verification and block state, in that order.
// The three failures are distinguishable so the UI can explain; collapsing
// them is a hardening call left to the handler layer.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.checkUserStatus(user); err != nil {
		return nil, err
	}

	return s.buildLoginResponse(user)
}

// RefreshToken exchanges a live refresh token for a fresh pair, rotating
// the old one out. The user record is re-checked so a block or missing
// verification takes effect here too.
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(token.UserEmail)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.checkUserStatus(user); err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil &&
		!apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

// VerifyEmail consumes a verification token. Consuming marks the user
// verified and clears the expiry while leaving the token value behind, so
// a second click on the same link lands in the already-verified no-op
// branch instead of failing. An expired token is rejected on every
// presentation.
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	if user.Verified {
		// already consumed; accepting again is the documented exception
		// to consume-once semantics for the verification kind
		return nil
	}

	if user.VerificationTokenExpiry == nil || time.Now().After(*user.VerificationTokenExpiry) {
		return apperrors.ErrInvalidToken
	}

	if err := s.userRepo.ConsumeVerification(user.Email); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// RequestPasswordReset issues a reset token, overwriting any outstanding
// one. An unknown email returns success without side effects so the
// endpoint cannot be used to probe for accounts.
func (s *AuthServiceImpl) RequestPasswordReset(userEmail string) error {
	user, err := s.userRepo.FindByEmail(userEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	resetToken := auth.NewRandomToken()
	expiry := time.Now().Add(s.resetTTL)

	if err := s.userRepo.SetResetToken(user.Email, resetToken, expiry); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendPasswordResetEmail(user.Email, resetToken)

	return nil
}

// ResetPassword consumes a reset token: the new hash is stored and the
// token cleared in one atomic update, then every refresh token for the
// user is dropped so existing sessions must log in again.
func (s *AuthServiceImpl) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.SetPassword(user.Email, hashedPassword); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.DeleteByUserEmail(user.Email); err != nil {
		logger.Error("failed to drop sessions after password reset", "email", user.Email, "error", err)
	}

	return nil
}

// ChangePassword replaces the password for a logged-in user who knows the
// current one.
func (s *AuthServiceImpl) ChangePassword(userEmail, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(userEmail)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.SetPassword(user.Email, hashedPassword); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- helpers ---

func (s *AuthServiceImpl) checkUserStatus(user *models.User) error {
	if !user.Verified {
		return apperrors.ErrUserNotVerified
	}
	if user.Blocked {
		return apperrors.ErrUserBlocked
	}
	return nil
}

func (s *AuthServiceImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := &models.RefreshToken{
		UserEmail: user.Email,
		Token:     auth.NewRandomToken(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		User: &dto.UserResponse{
			Email:      user.Email,
			Name:       user.Name,
			Profession: user.Profession,
			Role:       user.Role,
			Verified:   user.Verified,
		},
	}, nil
}

func (s *AuthServiceImpl) sendVerificationEmail(to, token string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendVerification(to, token); err != nil {
			logger.Error("failed to send verification email", "recipient", to, "error", err)
		}
	}()
}

func (s *AuthServiceImpl) sendPasswordResetEmail(to, token string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendPasswordReset(to, token); err != nil {
			logger.Error("failed to send password reset email", "recipient", to, "error", err)
		}
	}()
}
