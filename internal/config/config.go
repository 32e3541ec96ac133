package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	GroqAPIKey   string
	GeminiAPIKey string

	// Path of the SQLite database holding plan history, sessions and metrics.
	DatabasePath string

	// Secret used to sign plan share tokens. Sharing is disabled when empty.
	ShareTokenSecret string

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	// Gemini is an optional secondary backend; the engine runs on Groq alone.
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	databasePath := os.Getenv("PLANNER_DB_PATH")
	if databasePath == "" {
		databasePath = "data/planner.db"
	}

	shareTokenSecret := os.Getenv("SHARE_TOKEN_SECRET")

	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	telegramAllowUserIDStr := os.Getenv("TELEGRAM_ALLOW_USER_ID")
	var telegramAllowUserID int64
	if telegramAllowUserIDStr != "" {
		fmt.Sscanf(telegramAllowUserIDStr, "%d", &telegramAllowUserID)
	}

	return &Config{
		GroqAPIKey:          groqAPIKey,
		GeminiAPIKey:        geminiAPIKey,
		DatabasePath:        databasePath,
		ShareTokenSecret:    shareTokenSecret,
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}
