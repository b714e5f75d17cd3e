package models

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailLog is the append-only audit record of outbound mail attempts.
// Rows are written for every attempt, success or failure, and never
// mutated afterwards.
type EmailLog struct {
	BaseModel
	Recipient string      `gorm:"not null;index" json:"recipient"`
	Subject   string      `json:"subject"`
	Status    EmailStatus `gorm:"type:varchar(10)" json:"status"`
	Error     string      `json:"error,omitempty"`
}
