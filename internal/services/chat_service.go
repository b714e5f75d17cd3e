package services

import (
	"context"
	"fmt"
	"strings"

	"omnisnt_backend/internal/ai"
	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/logger"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services/dto"

	"github.com/google/uuid"
)

const (
	// historyWindow is how many past exchanges are replayed into the prompt.
	historyWindow = 5
	// snippetLimit caps each replayed message so old walls of text don't
	// crowd out the current question.
	snippetLimit = 500
)

type ChatService interface {
	SendMessage(ctx context.Context, userEmail string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	History(userEmail string) ([]dto.ChatMessageResponse, error)
}

type ChatServiceImpl struct {
	chatRepo   repositories.ChatRepository
	client     ai.ChatClient
	translator ai.Translator
}

func NewChatService(chatRepo repositories.ChatRepository, client ai.ChatClient, translator ai.Translator) ChatService {
	return &ChatServiceImpl{
		chatRepo:   chatRepo,
		client:     client,
		translator: translator,
	}
}

// SendMessage runs one chat turn: translate Hindi input to English when
// asked, replay recent history into the prompt, call the model, translate
// the reply back, and persist the exchange. The stored user_input is the
// text the user actually typed.
func (s *ChatServiceImpl) SendMessage(ctx context.Context, userEmail string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	userInput := strings.TrimSpace(req.Message)
	if userInput == "" {
		return nil, apperrors.NewBadRequestError("message must not be empty")
	}

	modelInput := userInput
	if req.Language == "hi" {
		translated, err := s.translator.Translate(ctx, userInput, "hi", "en")
		if err != nil {
			logger.CtxWithError(ctx, "input translation failed, using raw text", err)
		} else {
			modelInput = translated
		}
	}

	prompt, err := s.buildPrompt(userEmail, modelInput)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	reply, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.ErrAIUnavailable.WithError(err)
	}

	if req.Language == "hi" {
		translated, err := s.translator.Translate(ctx, reply, "en", "hi")
		if err != nil {
			logger.CtxWithError(ctx, "reply translation failed, returning English", err)
		} else {
			reply = translated
		}
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	message := &models.ChatMessage{
		UserEmail:  userEmail,
		UserInput:  userInput,
		AIResponse: reply,
		ThreadID:   threadID,
	}
	if err := s.chatRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SendMessageResponse{
		Reply:    reply,
		ThreadID: threadID,
	}, nil
}

func (s *ChatServiceImpl) History(userEmail string) ([]dto.ChatMessageResponse, error) {
	messages, err := s.chatRepo.FindByUser(userEmail)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	history := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		history = append(history, dto.ChatMessageResponse{
			ID:         m.ID,
			UserInput:  m.UserInput,
			AIResponse: m.AIResponse,
			ThreadID:   m.ThreadID,
			Timestamp:  m.CreatedAt,
		})
	}
	return history, nil
}

func (s *ChatServiceImpl) buildPrompt(userEmail, input string) (string, error) {
	past, err := s.chatRepo.FindRecentByUser(userEmail, historyWindow)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, chat := range past {
		fmt.Fprintf(&sb, "User: %s\nAI: %s\n\n", truncate(chat.UserInput), truncate(chat.AIResponse))
	}
	fmt.Fprintf(&sb, "User: %s\nAI:", input)
	return sb.String(), nil
}

func truncate(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit]
}
