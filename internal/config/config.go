package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the portfolio service
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Content ContentConfig
	Gate    GateConfig
	Redis   RedisConfig
	Cleanup CleanupConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level slog.Level
}

// ContentConfig holds content catalog and asset configuration
type ContentConfig struct {
	Dir       string // empty means the embedded catalog
	StaticDir string
}

// GateConfig holds challenge gate configuration
type GateConfig struct {
	RejectDelay  time.Duration
	AcceptDelay  time.Duration
	SubmitLimit  int // 0 disables throttling
	SubmitWindow time.Duration
}

// RedisConfig holds Redis configuration for the shared submit limiter
type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
}

// CleanupConfig holds cleanup worker configuration
type CleanupConfig struct {
	Interval time.Duration
	IdleTTL  time.Duration
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		},
		Content: ContentConfig{
			Dir:       getEnv("CONTENT_DIR", ""),
			StaticDir: getEnv("STATIC_DIR", "./static"),
		},
		Gate: GateConfig{
			RejectDelay:  getEnvAsDuration("GATE_REJECT_DELAY", 2*time.Second),
			AcceptDelay:  getEnvAsDuration("GATE_ACCEPT_DELAY", 3*time.Second),
			SubmitLimit:  getEnvAsInt("GATE_SUBMIT_LIMIT", 20),
			SubmitWindow: getEnvAsDuration("GATE_SUBMIT_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", time.Minute),
			IdleTTL:  getEnvAsDuration("SHELL_IDLE_TTL", 30*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Gate.RejectDelay <= 0 || c.Gate.AcceptDelay <= 0 {
		return fmt.Errorf("gate delays must be positive")
	}

	if c.Gate.SubmitLimit < 0 {
		return fmt.Errorf("invalid gate submit limit: %d", c.Gate.SubmitLimit)
	}

	if c.Gate.SubmitLimit > 0 && c.Gate.SubmitWindow <= 0 {
		return fmt.Errorf("gate submit window must be positive when a limit is set")
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value, exists := os.LookupEnv(key); exists {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}
