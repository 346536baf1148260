package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken         string
	DiscordApplicationID string

	// RetroAchievements service account, used for the weekly
	// achievement-of-the-week lookup (per-user polling uses each
	// user's own key)
	RAUsername string
	RAAPIKey   string

	// Database
	DatabasePath string

	// Polling
	TickSeconds     int
	RecentGameCount int

	// Presentation defaults for new registrations
	DefaultBackground string
	DefaultTextColor  string

	// Logging
	LogLevel     string
	LogChannelID string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		RAUsername:           os.Getenv("RA_USERNAME"),
		RAAPIKey:             os.Getenv("RA_API_KEY"),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "./data/bot.db"),
		DefaultBackground:    getEnvOrDefault("DEFAULT_BACKGROUND", "data/backgrounds/default_background.png"),
		DefaultTextColor:     getEnvOrDefault("DEFAULT_TEXT_COLOR", "#ffffff"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogChannelID:         os.Getenv("LOG_CHANNEL_ID"),
	}

	tick, err := parseIntEnv("TICK_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.TickSeconds = tick

	games, err := parseIntEnv("RECENT_GAME_COUNT", 5)
	if err != nil {
		return nil, err
	}
	cfg.RecentGameCount = games

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.RAUsername == "" || cfg.RAAPIKey == "" {
		return nil, fmt.Errorf("RA_USERNAME and RA_API_KEY are required")
	}

	return cfg, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
