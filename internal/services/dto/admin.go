package dto

import (
	"time"

	"omnisnt_backend/internal/models"
)

type AdminUserResponse struct {
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Profession string          `json:"profession"`
	Role       models.UserRole `json:"role"`
	Verified   bool            `json:"verified"`
	Blocked    bool            `json:"blocked"`
	CreatedAt  time.Time       `json:"created_at"`
}

type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type AdminStatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	VerifiedUsers int64 `json:"verified_users"`
	BlockedUsers  int64 `json:"blocked_users"`
	TotalChats    int64 `json:"total_chats"`
}

type TestEmailRequest struct {
	To string `json:"to" binding:"required" validate:"required,email"`
}

type EmailLogResponse struct {
	ID        uint      `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
