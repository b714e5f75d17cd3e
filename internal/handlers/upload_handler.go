package handlers

import (
	"io"
	"net/http"
	"strconv"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/middleware"
	"omnisnt_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxSize       int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		maxSize:       maxSize,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	{
		files.POST("", h.Upload)
		files.GET("", h.List)
		files.GET("/:id/content", h.Content)
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file is required"))
		return
	}

	if fileHeader.Size > h.maxSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	userEmail := middleware.CurrentEmail(c)
	response, err := h.uploadService.Process(userEmail, fileHeader.Filename, content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *UploadHandler) List(c *gin.Context) {
	userEmail := middleware.CurrentEmail(c)
	files, err := h.uploadService.ListFiles(userEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *UploadHandler) Content(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid file id"))
		return
	}

	userEmail := middleware.CurrentEmail(c)
	content, err := h.uploadService.FileContent(uint(id), userEmail)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}
