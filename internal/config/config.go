package config

import (
	"os"
	"strconv"

	"levelup/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Timer   TimerConfig
	AI      AIConfig
	Notify  NotifyConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	// Driver is "sqlite" (default, local file) or "postgres".
	Driver string
	// Path is the sqlite database file location.
	Path string
	// URL is the postgres connection string; required for the
	// postgres driver.
	URL string
}

// TimerConfig holds the session and progression knobs. The conversion
// ratio and promotion gate are deliberately configuration, not
// constants: source revisions disagreed on their values.
type TimerConfig struct {
	DefaultFocusMinutes  int
	DefaultBreakMinutes  int
	RewardDivisor        int
	PromotionGateMinutes int
	TargetHours          float64
}

// AIConfig holds coach/LLM related settings. The coach is optional:
// an empty API key disables chat and the daily review, nothing else.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Persona     string
	Background  string
	MaxTokens   int
	Temperature float64
}

// NotifyConfig holds notification dispatch settings
type NotifyConfig struct {
	WebhookURL string
}

// DefaultPersona is the coach system persona used when none is
// configured.
const DefaultPersona = "你是一位专业、耐心的考研导师。请根据学生的学习数据和进度提供有针对性的建议和指导。" +
	"请使用markdown格式回复，用**粗体**强调重点，用###表示小标题，用-表示列表项。"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			Driver: getEnvOrDefault("DB_DRIVER", "sqlite"),
			Path:   getEnvOrDefault("DB_PATH", "levelup.db"),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Timer: TimerConfig{
			DefaultFocusMinutes:  getEnvIntOrDefault("DEFAULT_FOCUS_MINUTES", 45),
			DefaultBreakMinutes:  getEnvIntOrDefault("DEFAULT_BREAK_MINUTES", 10),
			RewardDivisor:        getEnvIntOrDefault("REWARD_DIVISOR", 10),
			PromotionGateMinutes: getEnvIntOrDefault("PROMOTION_GATE_MINUTES", 480),
			TargetHours:          getEnvFloatOrDefault("TARGET_HOURS", 0),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("AI_API_KEY"),
			BaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.siliconflow.cn/v1"),
			Model:       getEnvOrDefault("AI_MODEL", "deepseek-ai/DeepSeek-R1"),
			Persona:     getEnvOrDefault("AI_PERSONA", DefaultPersona),
			Background:  os.Getenv("AI_USER_BACKGROUND"),
			MaxTokens:   getEnvIntOrDefault("AI_MAX_TOKENS", 2000),
			Temperature: getEnvFloatOrDefault("AI_TEMPERATURE", 0.7),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case "sqlite":
		if cfg.Storage.Path == "" {
			return errors.ConfigInvalid("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if cfg.Storage.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.ConfigInvalid("DB_DRIVER must be sqlite or postgres")
	}

	if cfg.Timer.DefaultFocusMinutes <= 0 || cfg.Timer.DefaultBreakMinutes <= 0 {
		return errors.ConfigInvalid("default session minutes must be positive")
	}
	if cfg.Timer.RewardDivisor <= 0 {
		return errors.ConfigInvalid("REWARD_DIVISOR must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
