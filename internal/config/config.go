package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is built once at startup and passed explicitly to the components
// that need it. Nothing reads configuration ambiently after Load returns.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	App struct {
		// BaseURL is the public URL of the frontend; verification and
		// reset links are built against it.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret          string `yaml:"secret"`
		TTLMinutes      int    `yaml:"ttl_minutes"`
		RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
	} `yaml:"jwt"`

	Tokens struct {
		VerificationTTLMinutes int `yaml:"verification_ttl_minutes"`
		ResetTTLMinutes        int `yaml:"reset_ttl_minutes"`
	} `yaml:"tokens"`

	AI struct {
		GeminiAPIKey  string `yaml:"gemini_api_key"`
		GeminiBaseURL string `yaml:"gemini_base_url"`
		GeminiModel   string `yaml:"gemini_model"`
		WhisperAPIKey string `yaml:"whisper_api_key"`
		WhisperURL    string `yaml:"whisper_url"`
		TranslateURL  string `yaml:"translate_url"`
	} `yaml:"ai"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"`
	} `yaml:"upload"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"admin"`
}

// Load reads configuration from the YAML file pointed to by CONFIG_PATH
// (default config/config.yaml). When DATABASE_PATH is set the file is
// skipped entirely and everything comes from environment variables; the
// test helpers rely on this mode.
func Load() (*Config, error) {
	var cfg Config

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
		cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
		cfg.Email.SMTPUser = os.Getenv("SMTP_USER")
		cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
		cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
		cfg.App.BaseURL = os.Getenv("APP_BASE_URL")
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
		cfg.AI.WhisperAPIKey = os.Getenv("WHISPER_API_KEY")
		cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
		cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
		cfg.applyDefaults()
		return &cfg, nil
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config file %s: %w", configPath, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.Path == "" {
		c.Database.Path = "omnisnt.db"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUser
	}
	if c.JWT.TTLMinutes == 0 {
		c.JWT.TTLMinutes = 60
	}
	if c.JWT.RefreshTTLHours == 0 {
		c.JWT.RefreshTTLHours = 7 * 24
	}
	if c.Tokens.VerificationTTLMinutes == 0 {
		c.Tokens.VerificationTTLMinutes = 60
	}
	if c.Tokens.ResetTTLMinutes == 0 {
		c.Tokens.ResetTTLMinutes = 30
	}
	if c.AI.GeminiBaseURL == "" {
		c.AI.GeminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.AI.GeminiModel == "" {
		c.AI.GeminiModel = "gemini-1.5-flash"
	}
	if c.AI.WhisperURL == "" {
		c.AI.WhisperURL = "https://api.openai.com/v1/audio/transcriptions"
	}
	if c.AI.TranslateURL == "" {
		c.AI.TranslateURL = "https://translate.googleapis.com/translate_a/single"
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
}

// VerificationTTL returns the e-mail verification token lifetime.
func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.Tokens.VerificationTTLMinutes) * time.Minute
}

// ResetTTL returns the password reset token lifetime.
func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.Tokens.ResetTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the JWT access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLHours) * time.Hour
}
