package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/biomatch-omni-server/internal/domain"
)

// Manager loads and validates application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/biomatch/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("BIOMATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Session store defaults
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.redis_url", "redis://localhost:6379")
	viper.SetDefault("session.ttl", "24h")

	// Report pacing mirrors the interactive analysis cadence
	viper.SetDefault("report.generation_delay", "1400ms")

	// Assistant defaults (OpenAI-compatible chat completion endpoint)
	viper.SetDefault("assistant.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("assistant.api_key", "")
	viper.SetDefault("assistant.model", "llama-3.3-70b-versatile")
	viper.SetDefault("assistant.temperature", 0.5)
	viper.SetDefault("assistant.max_tokens", 500)
	viper.SetDefault("assistant.timeout", "60s")
	viper.SetDefault("assistant.rate_limit", 1.0)
	viper.SetDefault("assistant.rate_burst", 4)

	// Feedback store defaults
	viper.SetDefault("feedback.backend", "sqlite")
	viper.SetDefault("feedback.sqlite_path", "./data/feedback.db")
	viper.SetDefault("feedback.postgres_url", "")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetSessionConfig returns session store configuration
func (m *Manager) GetSessionConfig() *domain.SessionConfig {
	return &m.config.Session
}

// GetAssistantConfig returns assistant proxy configuration
func (m *Manager) GetAssistantConfig() *domain.AssistantConfig {
	return &m.config.Assistant
}

// GetFeedbackConfig returns feedback store configuration
func (m *Manager) GetFeedbackConfig() *domain.FeedbackConfig {
	return &m.config.Feedback
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate session store configuration
	switch config.Session.Store {
	case "memory":
	case "redis":
		if config.Session.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis session store")
		}
	default:
		return fmt.Errorf("invalid session store: %s", config.Session.Store)
	}

	// Report pacing must not be negative
	if config.Report.GenerationDelay < 0 {
		return fmt.Errorf("invalid report generation delay: %s", config.Report.GenerationDelay)
	}

	// Validate feedback store configuration
	switch config.Feedback.Backend {
	case "sqlite":
		if config.Feedback.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite feedback backend")
		}
	case "postgres":
		if config.Feedback.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for the postgres feedback backend")
		}
	default:
		return fmt.Errorf("invalid feedback backend: %s", config.Feedback.Backend)
	}

	// The assistant is optional, but when enabled its endpoint must be set
	if config.Assistant.APIKey != "" && config.Assistant.BaseURL == "" {
		return fmt.Errorf("assistant base URL is required when an API key is configured")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// AssistantEnabled reports whether the conversational assistant proxy is
// configured with an upstream credential.
func (m *Manager) AssistantEnabled() bool {
	return m.config.Assistant.APIKey != ""
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(viper.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}
