package handlers

import (
	"net/http"

	"omnisnt_backend/internal/ai"
	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/middleware"
	"omnisnt_backend/internal/services"
	"omnisnt_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
	transcriber ai.Transcriber
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService, transcriber ai.Transcriber) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
		transcriber: transcriber,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	{
		chat.POST("/messages", h.SendMessage)
		chat.GET("/history", h.History)
		chat.POST("/voice", h.TranscribeVoice)
	}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userEmail := middleware.CurrentEmail(c)
	response, err := h.chatService.SendMessage(c.Request.Context(), userEmail, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) History(c *gin.Context) {
	userEmail := middleware.CurrentEmail(c)
	history, err := h.chatService.History(userEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// TranscribeVoice accepts an audio upload and returns its transcript so
// the client can feed it into the chat input.
func (h *ChatHandler) TranscribeVoice(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("audio file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrAIUnavailable.WithError(err))
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptionResponse{Text: text})
}
