package repositories

import (
	"errors"
	"strings"
	"time"

	"omnisnt_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByVerificationToken(token string) (*models.User, error)
	FindByResetToken(token string) (*models.User, error)

	SetVerificationToken(email, token string, expiry time.Time) error
	ConsumeVerification(email string) error
	SetResetToken(email, token string, expiry time.Time) error
	SetPassword(email, passwordHash string) error
	SetBlocked(email string, blocked bool) error

	FindAll() ([]models.User, error)
	Search(query string) ([]models.User, error)
	Count() (int64, error)
	CountVerified() (int64, error)
	CountBlocked() (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create inserts the user. The unique index on email serializes concurrent
// signups: the second writer gets ErrUserAlreadyExists, never an overwrite.
func (r *UserRepositoryImpl) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "verification_token = ? AND verification_token != ''", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "reset_token = ? AND reset_token != ''", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetVerificationToken stores a fresh verification token, overwriting any
// outstanding one. Only one token per kind is ever live for a user.
func (r *UserRepositoryImpl) SetVerificationToken(email, token string, expiry time.Time) error {
	return r.updateByEmail(email, map[string]interface{}{
		"verification_token":        token,
		"verification_token_expiry": expiry,
	})
}

// ConsumeVerification marks the user verified in a single atomic update.
// The token value stays behind with a nil expiry so a repeat click on the
// same link is recognized as already done instead of rejected.
func (r *UserRepositoryImpl) ConsumeVerification(email string) error {
	return r.updateByEmail(email, map[string]interface{}{
		"verified":                  true,
		"verification_token_expiry": nil,
	})
}

func (r *UserRepositoryImpl) SetResetToken(email, token string, expiry time.Time) error {
	return r.updateByEmail(email, map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	})
}

// SetPassword replaces the password hash and clears any outstanding reset
// token in the same statement, so a half-applied reset is never visible.
func (r *UserRepositoryImpl) SetPassword(email, passwordHash string) error {
	return r.updateByEmail(email, map[string]interface{}{
		"password_hash":      passwordHash,
		"reset_token":        "",
		"reset_token_expiry": nil,
	})
}

func (r *UserRepositoryImpl) SetBlocked(email string, blocked bool) error {
	return r.updateByEmail(email, map[string]interface{}{
		"blocked": blocked,
	})
}

func (r *UserRepositoryImpl) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Search(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountVerified() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("verified = ?", true).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountBlocked() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("blocked = ?", true).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) updateByEmail(email string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.User{}).Where("email = ?", email).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite reports constraint violations as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
