package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomatch-omni-server/internal/domain"
)

func validConfig() *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  2 * time.Minute,
		},
		Session: domain.SessionConfig{
			Store:    "memory",
			RedisURL: "redis://localhost:6379",
			TTL:      24 * time.Hour,
		},
		Report: domain.ReportConfig{
			GenerationDelay: 1400 * time.Millisecond,
		},
		Assistant: domain.AssistantConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.6,
			MaxTokens:   1024,
			Timeout:     time.Minute,
			RateLimit:   1.0,
			RateBurst:   4,
		},
		Feedback: domain.FeedbackConfig{
			Backend:    "sqlite",
			SQLitePath: "./data/feedback.db",
		},
		Logging: domain.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	m := &Manager{config: validConfig()}
	require.NoError(t, m.Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
		errMsg string
	}{
		{
			"zero port",
			func(c *domain.Config) { c.Server.Port = 0 },
			"invalid server port",
		},
		{
			"port out of range",
			func(c *domain.Config) { c.Server.Port = 70000 },
			"invalid server port",
		},
		{
			"unknown session store",
			func(c *domain.Config) { c.Session.Store = "dynamo" },
			"invalid session store",
		},
		{
			"redis store without url",
			func(c *domain.Config) { c.Session.Store = "redis"; c.Session.RedisURL = "" },
			"redis URL is required",
		},
		{
			"negative report delay",
			func(c *domain.Config) { c.Report.GenerationDelay = -time.Second },
			"invalid report generation delay",
		},
		{
			"unknown feedback backend",
			func(c *domain.Config) { c.Feedback.Backend = "mysql" },
			"invalid feedback backend",
		},
		{
			"sqlite backend without path",
			func(c *domain.Config) { c.Feedback.SQLitePath = "" },
			"sqlite path is required",
		},
		{
			"postgres backend without url",
			func(c *domain.Config) { c.Feedback.Backend = "postgres"; c.Feedback.PostgresURL = "" },
			"postgres URL is required",
		},
		{
			"assistant key without endpoint",
			func(c *domain.Config) { c.Assistant.APIKey = "sk-test"; c.Assistant.BaseURL = "" },
			"assistant base URL is required",
		},
		{
			"bad log level",
			func(c *domain.Config) { c.Logging.Level = "verbose" },
			"invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			m := &Manager{config: cfg}
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAssistantEnabled(t *testing.T) {
	cfg := validConfig()
	m := &Manager{config: cfg}
	assert.False(t, m.AssistantEnabled())

	cfg.Assistant.APIKey = "sk-test"
	assert.True(t, m.AssistantEnabled())
}
