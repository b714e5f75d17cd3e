package models

// ChatMessage is one prompt/response exchange. Append-only, owned by the
// user identified by UserEmail.
type ChatMessage struct {
	BaseModel
	UserEmail  string `gorm:"not null;index" json:"user_email"`
	UserInput  string `gorm:"not null" json:"user_input"`
	AIResponse string `json:"ai_response"`
	ThreadID   string `gorm:"index" json:"thread_id"`
}

func (ChatMessage) TableName() string {
	return "chats"
}
