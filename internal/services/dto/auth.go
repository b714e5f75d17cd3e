package dto

import "omnisnt_backend/internal/models"

type RegisterRequest struct {
	Name       string `json:"name" binding:"required" validate:"required,max=100"`
	Profession string `json:"profession" validate:"max=100"`
	Email      string `json:"email" binding:"required" validate:"required,email"`
	Password   string `json:"password" binding:"required" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Profession string          `json:"profession"`
	Role       models.UserRole `json:"role"`
	Verified   bool            `json:"verified"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required" validate:"required"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required" validate:"required"`
	NewPassword string `json:"new_password" binding:"required" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" validate:"required"`
	NewPassword     string `json:"new_password" binding:"required" validate:"required,min=8"`
}
