package dto

import "time"

type SendMessageRequest struct {
	Message  string `json:"message" binding:"required" validate:"required,max=4000"`
	ThreadID string `json:"thread_id" validate:"max=64"`
	Language string `json:"language" validate:"is-lang"`
}

type SendMessageResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"thread_id"`
}

type ChatMessageResponse struct {
	ID         uint      `json:"id"`
	UserInput  string    `json:"user_input"`
	AIResponse string    `json:"ai_response"`
	ThreadID   string    `json:"thread_id"`
	Timestamp  time.Time `json:"timestamp"`
}
