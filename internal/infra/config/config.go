package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MissingVarError is returned when a required environment variable is absent.
type MissingVarError struct {
	Var string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("%s is not set", e.Var)
}

// AppConfig holds all configuration for the service. It is constructed once
// at process start and passed by reference; nothing reads the environment
// after Load returns.
type AppConfig struct {
	DatabaseURL string

	// CronSecret and ResendAPIKey are deliberately optional at load time: the
	// cron endpoint reports their absence as distinct 500 responses rather
	// than refusing to boot, matching the hosted deployment's behavior.
	CronSecret   string
	ResendAPIKey string

	EmailFrom string
	SiteURL   string

	ListenAddr         string
	LogLevel           string
	Environment        string
	CronSpecExpiration string // Internal nightly trigger for the reminder job.

	TelegramToken string // Optional; enables the ops alert notifier.
	AdminChatID   int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing .env
	// file is fine.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, &MissingVarError{Var: "DATABASE_URL"}
	}

	cfg.CronSecret = os.Getenv("CRON_SECRET")
	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")

	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "Compliance Reminders <no-reply@localhost>"
	}

	cfg.SiteURL = strings.TrimRight(os.Getenv("SITE_URL"), "/")
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:3000"
	}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecExpiration = os.Getenv("CRON_SPEC_EXPIRATION")
	if cfg.CronSpecExpiration == "" {
		cfg.CronSpecExpiration = "0 9 * * *" // Default: 9 AM daily
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatIDStr := os.Getenv("ADMIN_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
		cfg.AdminChatID = chatID
	}

	return cfg, nil
}
