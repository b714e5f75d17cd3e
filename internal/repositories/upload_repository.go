package repositories

import (
	"errors"

	"omnisnt_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

type UploadRepository interface {
	Create(file *models.UploadedFile) error
	FindByUser(email string) ([]models.UploadedFile, error)
	FindByIDForUser(id uint, email string) (*models.UploadedFile, error)
}

type UploadRepositoryImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(file *models.UploadedFile) error {
	return r.db.Create(file).Error
}

func (r *UploadRepositoryImpl) FindByUser(email string) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	err := r.db.Select("id", "user_email", "file_name", "file_type", "created_at", "updated_at").
		Where("user_email = ?", email).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// FindByIDForUser scopes the lookup to the owner so one user can never
// read another user's extracted text.
func (r *UploadRepositoryImpl) FindByIDForUser(id uint, email string) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := r.db.First(&file, "id = ? AND user_email = ?", id, email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}
