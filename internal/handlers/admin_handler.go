package handlers

import (
	"net/http"
	"strconv"

	"omnisnt_backend/internal/apperrors"
	"omnisnt_backend/internal/middleware"
	"omnisnt_backend/internal/services"
	"omnisnt_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

// RegisterRoutes registers the admin surface. The caller wraps the group
// with the auth and admin middlewares.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:email/blocked", h.SetBlocked)
		admin.GET("/stats", h.Stats)
		admin.GET("/chats/export", h.ExportChats)
		admin.GET("/email-logs", h.EmailLogs)
		admin.POST("/test-email", h.SendTestEmail)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Query("q"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) SetBlocked(c *gin.Context) {
	var req dto.SetBlockedRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	actingEmail := middleware.CurrentEmail(c)
	targetEmail := c.Param("email")

	if err := h.adminService.SetBlocked(actingEmail, targetEmail, req.Blocked); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ExportChats(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="chat_history.csv"`)

	if err := h.adminService.ExportChatsCSV(c.Writer); err != nil {
		// headers may already be out; log and close
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *AdminHandler) EmailLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.adminService.EmailLogs(limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_logs": logs})
}

func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req dto.TestEmailRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.adminService.SendTestEmail(req.To); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test email sent"})
}
