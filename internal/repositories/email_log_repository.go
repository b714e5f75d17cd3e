package repositories

import (
	"omnisnt_backend/internal/models"

	"gorm.io/gorm"
)

type EmailLogRepository interface {
	Create(log *models.EmailLog) error
	FindRecent(limit int) ([]models.EmailLog, error)
}

type EmailLogRepositoryImpl struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &EmailLogRepositoryImpl{db: db}
}

func (r *EmailLogRepositoryImpl) Create(log *models.EmailLog) error {
	return r.db.Create(log).Error
}

func (r *EmailLogRepositoryImpl) FindRecent(limit int) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
