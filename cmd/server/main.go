package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/api"
	"github.com/biomatch-omni-server/internal/assistant"
	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/config"
	"github.com/biomatch-omni-server/internal/database"
	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/feedback"
	"github.com/biomatch-omni-server/internal/scoring"
	"github.com/biomatch-omni-server/internal/session"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting BIO-MATCH OMNI server")

	// Build the scoring engine over the default catalog
	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		logger.WithError(err).Fatal("Catalog validation failed")
	}
	engine := scoring.NewEngine(logger, cat)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store: in-memory by default, Redis for multi-instance setups
	sessionStore, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create session store")
	}
	defer sessionStore.Close()
	sessions := session.NewManager(logger, engine, sessionStore, cfg.Report.GenerationDelay)

	// Assistant proxy is optional; without an API key the chat route answers 503
	var assistantClient *assistant.Client
	if configManager.AssistantEnabled() {
		assistantClient = assistant.NewClient(logger, cfg.Assistant)
		logger.WithField("model", cfg.Assistant.Model).Info("Assistant proxy enabled")
	} else {
		logger.Info("Assistant proxy disabled: no API key configured")
	}

	// Clinician feedback store
	feedbackStore, err := newFeedbackStore(ctx, logger, cfg.Feedback)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create feedback store")
	}
	defer feedbackStore.Close()

	// Create server
	server, err := api.NewServer(logger, configManager, engine, sessions, assistantClient, feedbackStore)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create HTTP server")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func newSessionStore(ctx context.Context, cfg domain.SessionConfig) (session.Store, error) {
	if cfg.Store == "redis" {
		return session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	}
	return session.NewMemoryStore(), nil
}

func newFeedbackStore(ctx context.Context, logger *logrus.Logger, cfg domain.FeedbackConfig) (feedback.Store, error) {
	if cfg.Backend == "postgres" {
		runner, err := database.NewMigrationRunner(cfg.PostgresURL, logger)
		if err != nil {
			return nil, err
		}
		defer runner.Close()
		if err := runner.Up(ctx); err != nil {
			return nil, err
		}

		db, err := database.NewConnection(ctx, database.Config{
			URL:         cfg.PostgresURL,
			MaxConns:    25,
			MinConns:    5,
			MaxConnLife: 5 * time.Minute,
		}, logger)
		if err != nil {
			return nil, err
		}
		return feedback.NewPostgresStore(db.Pool)
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return feedback.NewSQLiteStore(cfg.SQLitePath)
}
