package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/middleware"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/services"
	"omnisnt_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeEmailProvider swallows outbound mail.
type fakeEmailProvider struct{}

func (fakeEmailProvider) Send(to, subject, htmlBody string) error  { return nil }
func (fakeEmailProvider) SendVerification(to, token string) error  { return nil }
func (fakeEmailProvider) SendPasswordReset(to, token string) error { return nil }

// fakeChatClient returns a fixed reply.
type fakeChatClient struct{ reply string }

func (f fakeChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	return f.reply, nil
}

// fakeTranslator passes text through untouched.
type fakeTranslator struct{}

func (fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return text, nil
}

// fakeTranscriber returns a fixed transcript.
type fakeTranscriber struct{ text string }

func (f fakeTranscriber) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	return f.text, nil
}

type handlerTestEnv struct {
	router   *gin.Engine
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	db       *gorm.DB
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ChatMessage{},
		&models.UploadedFile{},
		&models.EmailLog{},
	))

	userRepo := repositories.NewUserRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)
	emailLogRepo := repositories.NewEmailLogRepository(db)

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)

	authService := services.NewAuthService(
		userRepo, refreshRepo, fakeEmailProvider{}, tokens,
		time.Hour, 30*time.Minute, 7*24*time.Hour,
	)
	chatService := services.NewChatService(chatRepo, fakeChatClient{reply: "model reply"}, fakeTranslator{})
	uploadService := services.NewUploadService(uploadRepo, 1<<20)
	adminService := services.NewAdminService(userRepo, chatRepo, emailLogRepo, fakeEmailProvider{})

	base := NewBaseHandler(validator.New())
	appHandlers := &AppHandlers{
		AuthHandler:   NewAuthHandler(base, authService),
		ChatHandler:   NewChatHandler(base, chatService, fakeTranscriber{text: "spoken words"}),
		UploadHandler: NewUploadHandler(base, uploadService, 1<<20),
		AdminHandler:  NewAdminHandler(base, adminService),
	}

	// mirrors the production route layout
	router := gin.New()
	api := router.Group("/api/v1")
	appHandlers.AuthHandler.RegisterRoutes(api)

	authMW := middleware.Auth(tokens, userRepo)
	protected := api.Group("", authMW)
	appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
	appHandlers.ChatHandler.RegisterRoutes(protected)
	appHandlers.UploadHandler.RegisterRoutes(protected)

	admin := api.Group("", authMW, middleware.Admin())
	appHandlers.AdminHandler.RegisterRoutes(admin)

	return &handlerTestEnv{
		router:   router,
		userRepo: userRepo,
		tokens:   tokens,
		db:       db,
	}
}

func (e *handlerTestEnv) createUser(t *testing.T, email string, role models.UserRole) string {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		Verified:     true,
	}
	require.NoError(t, e.userRepo.Create(user))

	token, err := e.tokens.Generate(user)
	require.NoError(t, err)
	return token
}

func (e *handlerTestEnv) doJSON(method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *handlerTestEnv) doMultipart(t *testing.T, path, bearer, field, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
