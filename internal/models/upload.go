package models

// UploadedFile stores the extracted text of a user upload, not the raw
// bytes. Append-only, owned by the user identified by UserEmail.
type UploadedFile struct {
	BaseModel
	UserEmail     string `gorm:"not null;index" json:"user_email"`
	FileName      string `gorm:"not null" json:"file_name"`
	FileType      string `json:"file_type"`
	ExtractedText string `json:"-"`
}
