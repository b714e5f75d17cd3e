package services

import (
	"path/filepath"
	"strings"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/extract"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services/dto"
)

var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type UploadService interface {
	Process(userEmail, fileName string, content []byte) (*dto.UploadedFileResponse, error)
	ListFiles(userEmail string) ([]dto.UploadedFileResponse, error)
	FileContent(id uint, userEmail string) (*dto.FileContentResponse, error)
}

type UploadServiceImpl struct {
	uploadRepo repositories.UploadRepository
	maxSize    int64
}

func NewUploadService(uploadRepo repositories.UploadRepository, maxSize int64) UploadService {
	return &UploadServiceImpl{
		uploadRepo: uploadRepo,
		maxSize:    maxSize,
	}
}

// Process extracts the document's text and stores it under the owner.
func (s *UploadServiceImpl) Process(userEmail, fileName string, content []byte) (*dto.UploadedFileResponse, error) {
	if int64(len(content)) > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !extract.Supported(fileName) {
		return nil, apperrors.ErrInvalidFileType
	}

	text, err := extract.Text(fileName, content)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	file := &models.UploadedFile{
		UserEmail:     userEmail,
		FileName:      fileName,
		FileType:      mimeByExtension[strings.ToLower(filepath.Ext(fileName))],
		ExtractedText: text,
	}
	if err := s.uploadRepo.Create(file); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadedFileResponse{
		ID:        file.ID,
		FileName:  file.FileName,
		FileType:  file.FileType,
		Timestamp: file.CreatedAt,
	}, nil
}

func (s *UploadServiceImpl) ListFiles(userEmail string) ([]dto.UploadedFileResponse, error) {
	files, err := s.uploadRepo.FindByUser(userEmail)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.UploadedFileResponse, 0, len(files))
	for _, f := range files {
		result = append(result, dto.UploadedFileResponse{
			ID:        f.ID,
			FileName:  f.FileName,
			FileType:  f.FileType,
			Timestamp: f.CreatedAt,
		})
	}
	return result, nil
}

func (s *UploadServiceImpl) FileContent(id uint, userEmail string) (*dto.FileContentResponse, error) {
	file, err := s.uploadRepo.FindByIDForUser(id, userEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFileNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.FileContentResponse{
		ID:            file.ID,
		FileName:      file.FileName,
		ExtractedText: file.ExtractedText,
	}, nil
}
