package repositories

import (
	"omnisnt_backend/internal/models"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(message *models.ChatMessage) error
	FindByUser(email string) ([]models.ChatMessage, error)
	FindRecentByUser(email string, limit int) ([]models.ChatMessage, error)
	FindAll() ([]models.ChatMessage, error)
	Count() (int64, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) Create(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindByUser(email string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_email = ?", email).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// FindRecentByUser returns the user's last messages in chronological
// order, oldest first, ready for prompt assembly.
func (r *ChatRepositoryImpl) FindRecentByUser(email string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepositoryImpl) FindAll() ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).Count(&count).Error
	return count, err
}
