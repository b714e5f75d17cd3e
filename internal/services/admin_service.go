package services

import (
	"encoding/csv"
	"io"
	"strings"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/email"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services/dto"
)

const chatExportTimeFormat = "2006-01-02 15:04:05"

type AdminService interface {
	ListUsers(query string) ([]dto.AdminUserResponse, error)
	SetBlocked(actingEmail, targetEmail string, blocked bool) error
	Stats() (*dto.AdminStatsResponse, error)
	ExportChatsCSV(w io.Writer) error
	EmailLogs(limit int) ([]dto.EmailLogResponse, error)
	SendTestEmail(to string) error
}

type AdminServiceImpl struct {
	userRepo      repositories.UserRepository
	chatRepo      repositories.ChatRepository
	emailLogRepo  repositories.EmailLogRepository
	emailProvider email.Provider
}

func NewAdminService(
	userRepo repositories.UserRepository,
	chatRepo repositories.ChatRepository,
	emailLogRepo repositories.EmailLogRepository,
	emailProvider email.Provider,
) AdminService {
	return &AdminServiceImpl{
		userRepo:      userRepo,
		chatRepo:      chatRepo,
		emailLogRepo:  emailLogRepo,
		emailProvider: emailProvider,
	}
}

func (s *AdminServiceImpl) ListUsers(query string) ([]dto.AdminUserResponse, error) {
	var (
		users []models.User
		err   error
	)
	if strings.TrimSpace(query) != "" {
		users, err = s.userRepo.Search(query)
	} else {
		users, err = s.userRepo.FindAll()
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, dto.AdminUserResponse{
			Email:      u.Email,
			Name:       u.Name,
			Profession: u.Profession,
			Role:       u.Role,
			Verified:   u.Verified,
			Blocked:    u.Blocked,
			CreatedAt:  u.CreatedAt,
		})
	}
	return result, nil
}

// SetBlocked flips the target's blocked flag. Live access tokens are not
// force-terminated; the auth middleware re-reads the user record on every
// request, so a blocked user is shut out from their next call onward.
func (s *AdminServiceImpl) SetBlocked(actingEmail, targetEmail string, blocked bool) error {
	if actingEmail == targetEmail {
		return apperrors.ErrCannotModifySelf
	}

	if err := s.userRepo.SetBlocked(targetEmail, blocked); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) Stats() (*dto.AdminStatsResponse, error) {
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	verified, err := s.userRepo.CountVerified()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	blocked, err := s.userRepo.CountBlocked()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	chats, err := s.chatRepo.Count()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminStatsResponse{
		TotalUsers:    total,
		VerifiedUsers: verified,
		BlockedUsers:  blocked,
		TotalChats:    chats,
	}, nil
}

// ExportChatsCSV streams every chat row as UTF-8 CSV with the fixed
// column order email,user_input,ai_response,thread_id,timestamp.
func (s *AdminServiceImpl) ExportChatsCSV(w io.Writer) error {
	chats, err := s.chatRepo.FindAll()
	if err != nil {
		return apperrors.InternalError(err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"email", "user_input", "ai_response", "thread_id", "timestamp"}); err != nil {
		return apperrors.InternalError(err)
	}
	for _, chat := range chats {
		record := []string{
			chat.UserEmail,
			chat.UserInput,
			chat.AIResponse,
			chat.ThreadID,
			chat.CreatedAt.Format(chatExportTimeFormat),
		}
		if err := writer.Write(record); err != nil {
			return apperrors.InternalError(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) EmailLogs(limit int) ([]dto.EmailLogResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	logs, err := s.emailLogRepo.FindRecent(limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.EmailLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.EmailLogResponse{
			ID:        l.ID,
			Recipient: l.Recipient,
			Subject:   l.Subject,
			Status:    string(l.Status),
			Error:     l.Error,
			Timestamp: l.CreatedAt,
		})
	}
	return result, nil
}

func (s *AdminServiceImpl) SendTestEmail(to string) error {
	err := s.emailProvider.Send(to, "Test Email from OMNISNT",
		"<p>This is a test email from the admin panel.</p>")
	if err != nil {
		return apperrors.ErrEmailSendFailed.WithError(err)
	}
	return nil
}
