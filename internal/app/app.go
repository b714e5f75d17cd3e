package app

import (
	"fmt"
	"os"

	"omnisnt_backend/internal/ai"
	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/config"
	"omnisnt_backend/internal/email"
	"omnisnt_backend/internal/handlers"
	"omnisnt_backend/internal/logger"
	"omnisnt_backend/internal/middleware"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"
	"omnisnt_backend/internal/routes"
	"omnisnt_backend/internal/services"
	"omnisnt_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := OpenDatabase(cfg.Database.Path)
	if err != nil {
		// already retried once against a fresh file; nothing left to run on
		logger.Fatal("Failed to initialize database", "error", err)
	}
	logger.Info("Database ready", "path", cfg.Database.Path)

	if err := SeedFirstAdmin(db, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	router := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// OpenDatabase opens the SQLite store and migrates the schema. A corrupt
// file gets one self-healing attempt: quarantine it as <path>.corrupt.bak
// and recreate from scratch. A second failure is returned to the caller,
// which must treat it as fatal.
func OpenDatabase(path string) (*gorm.DB, error) {
	db, err := connectAndMigrate(path)
	if err == nil {
		return db, nil
	}

	logger.Error("Database initialization failed, attempting recovery", "path", path, "error", err)

	backupPath := path + ".corrupt.bak"
	_ = os.Remove(backupPath)
	if renameErr := os.Rename(path, backupPath); renameErr != nil {
		logger.Warn("Could not quarantine corrupt database file", "error", renameErr)
		_ = os.Remove(path)
	} else {
		logger.Info("Corrupt database quarantined", "backup", backupPath)
	}

	db, err = connectAndMigrate(path)
	if err != nil {
		return nil, fmt.Errorf("recreate database after corruption: %w", err)
	}
	logger.Info("Database recreated after corruption")
	return db, nil
}

func connectAndMigrate(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ChatMessage{},
		&models.UploadedFile{},
		&models.EmailLog{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedFirstAdmin creates the configured admin account when absent, so a
// fresh deployment has a way into the admin panel.
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("Admin seed credentials not configured, skipping")
		return nil
	}

	userRepo := repositories.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(cfg.Admin.Email); err == nil {
		return nil
	} else if err != repositories.ErrUserNotFound {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Name:         cfg.Admin.Name,
		Role:         models.UserRoleAdmin,
		Verified:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	logger.Info("Seeded first admin user", "email", cfg.Admin.Email)
	return nil
}

// SetupRouter builds the full gin engine with all dependencies wired.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, db)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	userRepo := repositories.NewUserRepository(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	authMW := middleware.Auth(tokens, userRepo)
	adminMW := middleware.Admin()

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	routes.RegisterRoutes(router, appHandlers, authMW, adminMW)

	return router
}

func initializeServices(cfg *config.Config, db *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)
	emailLogRepo := repositories.NewEmailLogRepository(db)

	emailProvider := email.NewSMTPProvider(cfg, emailLogRepo)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	geminiClient := ai.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiBaseURL, cfg.AI.GeminiModel)
	translator := ai.NewGoogleTranslator(cfg.AI.TranslateURL)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(
			userRepo,
			refreshTokenRepo,
			emailProvider,
			tokens,
			cfg.VerificationTTL(),
			cfg.ResetTTL(),
			cfg.RefreshTokenTTL(),
		),
		ChatService:   services.NewChatService(chatRepo, geminiClient, translator),
		UploadService: services.NewUploadService(uploadRepo, cfg.Upload.MaxSize),
		AdminService:  services.NewAdminService(userRepo, chatRepo, emailLogRepo, emailProvider),
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	transcriber := ai.NewWhisperClient(cfg.AI.WhisperAPIKey, cfg.AI.WhisperURL)

	return &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(baseHandler, container.AuthService),
		ChatHandler:   handlers.NewChatHandler(baseHandler, container.ChatService, transcriber),
		UploadHandler: handlers.NewUploadHandler(baseHandler, container.UploadService, cfg.Upload.MaxSize),
		AdminHandler:  handlers.NewAdminHandler(baseHandler, container.AdminService),
	}
}
