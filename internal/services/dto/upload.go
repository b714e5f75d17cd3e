package dto

import "time"

type UploadedFileResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	Timestamp time.Time `json:"timestamp"`
}

type FileContentResponse struct {
	ID            uint   `json:"id"`
	FileName      string `json:"file_name"`
	ExtractedText string `json:"extracted_text"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}
