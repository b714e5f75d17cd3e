package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newAuthRouter(t *testing.T) (*gin.Engine, repositories.UserRepository, *auth.TokenManager) {
	t.Helper()

	users := repositories.NewUserRepository(newMiddlewareTestDB(t))
	tokens := auth.NewTokenManager("test-secret", time.Minute)

	router := gin.New()
	protected := router.Group("", Auth(tokens, users))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentEmail(c)})
	})
	protected.GET("/admin-only", Admin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, users, tokens
}

func createUser(t *testing.T, users repositories.UserRepository, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Verified:     true,
	}
	require.NoError(t, users.Create(user))
	return user
}

func doRequest(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router, users, tokens := newAuthRouter(t)
	user := createUser(t, users, "alice@example.com", models.UserRoleUser)

	token, err := tokens.Generate(user)
	require.NoError(t, err)

	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	w := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	w := doRequest(router, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	router, _, tokens := newAuthRouter(t)

	// a valid token for a user who no longer exists
	token, err := tokens.Generate(&models.User{Email: "ghost@example.com"})
	require.NoError(t, err)

	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBlockedAfterLogin(t *testing.T) {
	router, users, tokens := newAuthRouter(t)
	user := createUser(t, users, "alice@example.com", models.UserRoleUser)

	token, err := tokens.Generate(user)
	require.NoError(t, err)

	require.NoError(t, users.SetBlocked(user.Email, true))

	// the token is still cryptographically valid but the account is not
	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	router, users, tokens := newAuthRouter(t)
	admin := createUser(t, users, "admin@example.com", models.UserRoleAdmin)
	user := createUser(t, users, "user@example.com", models.UserRoleUser)

	adminToken, err := tokens.Generate(admin)
	require.NoError(t, err)
	userToken, err := tokens.Generate(user)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(router, "/admin-only", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin-only", userToken).Code)
}

func TestAdminMiddlewareStaleRoleClaim(t *testing.T) {
	router, users, tokens := newAuthRouter(t)
	user := createUser(t, users, "alice@example.com", models.UserRoleUser)

	// mint a token claiming admin; the DB record decides, not the claim
	forged := *user
	forged.Role = models.UserRoleAdmin
	token, err := tokens.Generate(&forged)
	require.NoError(t, err)

	w := doRequest(router, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
