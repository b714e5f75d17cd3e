package routes

import (
	"net/http"

	"omnisnt_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP API. authMW establishes the session
// context from the bearer token; adminMW additionally requires the admin
// role.
func RegisterRoutes(
	router *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	adminMW gin.HandlerFunc,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// public: signup, login, token flows
	appHandlers.AuthHandler.RegisterRoutes(api)

	// authenticated user surface
	protected := api.Group("")
	protected.Use(authMW)
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
		appHandlers.ChatHandler.RegisterRoutes(protected)
		appHandlers.UploadHandler.RegisterRoutes(protected)
	}

	// admin surface
	admin := api.Group("")
	admin.Use(authMW, adminMW)
	{
		appHandlers.AdminHandler.RegisterRoutes(admin)
	}
}
