package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// State store configuration
	State StateConfig

	// HTTP control plane configuration
	HTTP HTTPConfig

	// Replies configuration (loaded from YAML)
	Replies *RepliesConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	BotToken      string
	OwnerID       int64
	ArchiveChatID int64 // 0 means the owner's own chat
	BaseURL       string
	PollTimeout   time.Duration
}

// StateConfig contains the state store configuration
type StateConfig struct {
	DBPath string
}

// HTTPConfig contains the control server configuration
type HTTPConfig struct {
	Addr string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// State DB path
	stateDBPath := os.Getenv("STATE_DB_PATH")
	if stateDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		stateDBPath = filepath.Join(homeDir, ".tg-awaybot", "state.db")
	}

	ownerID := int64(0)
	if val := os.Getenv("OWNER_ID"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			ownerID = parsed
		}
	}

	archiveChatID := int64(0)
	if val := os.Getenv("ARCHIVE_CHAT_ID"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			archiveChatID = parsed
		}
	}

	pollTimeout := 30 * time.Second
	if val := os.Getenv("POLL_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			pollTimeout = time.Duration(parsed) * time.Second
		}
	}

	// HTTP listen address; HTTP_PORT is a shorthand for ":<port>"
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("HTTP_PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	// Load replies from YAML
	repliesConfigPath := os.Getenv("REPLIES_CONFIG_PATH")
	repliesConfig, _ := LoadRepliesConfig(repliesConfigPath)

	return &Config{
		Telegram: TelegramConfig{
			BotToken:      os.Getenv("BOT_TOKEN"),
			OwnerID:       ownerID,
			ArchiveChatID: archiveChatID,
			BaseURL:       os.Getenv("TELEGRAM_BASE_URL"),
			PollTimeout:   pollTimeout,
		},
		State: StateConfig{
			DBPath: stateDBPath,
		},
		HTTP: HTTPConfig{
			Addr: httpAddr,
		},
		Replies: repliesConfig,
		Debug:   os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	if c.Telegram.OwnerID == 0 {
		return &ConfigError{Field: "OWNER_ID", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
