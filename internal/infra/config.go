package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting the service reads from the environment. It is
// built once at startup and passed to component constructors; nothing looks
// at os.Getenv after that.
type Config struct {
	AppEnv string
	Port   string

	TelegramBotToken    string
	TelegramAdminChatID string
	TelegramAPIBaseURL  string

	DatabaseURL         string
	LedgerTable         string
	LedgerPlayerColumn  string
	LedgerBalanceColumn string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig reads configuration from environment variables and applies
// defaults where a setting is optional.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: os.Getenv("TELEGRAM_ADMIN_CHAT_ID"),
		TelegramAPIBaseURL:  getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		LedgerTable:         getEnv("LEDGER_TABLE", "players"),
		LedgerPlayerColumn:  getEnv("LEDGER_PLAYER_COLUMN", "nickname"),
		LedgerBalanceColumn: getEnv("LEDGER_BALANCE_COLUMN", "donate_balance"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.TelegramAdminChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
