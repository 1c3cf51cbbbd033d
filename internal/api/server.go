// Package api exposes the compatibility engine over HTTP: catalog reads,
// session lifecycle and mutation, ranking, report generation, the
// conversational assistant proxy and a websocket breakdown stream.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/assistant"
	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/config"
	"github.com/biomatch-omni-server/internal/feedback"
	"github.com/biomatch-omni-server/internal/middleware"
	"github.com/biomatch-omni-server/internal/scoring"
	"github.com/biomatch-omni-server/internal/session"
)

// Server represents the HTTP server
type Server struct {
	logger        *logrus.Logger
	configManager *config.Manager
	catalog       *catalog.Catalog
	engine        *scoring.Engine
	sessions      *session.Manager
	assistant     *assistant.Client
	feedback      feedback.Store
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The assistant client and
// feedback store are optional; their routes answer 503 when absent.
func NewServer(
	logger *logrus.Logger,
	configManager *config.Manager,
	engine *scoring.Engine,
	sessions *session.Manager,
	assistantClient *assistant.Client,
	feedbackStore feedback.Store,
) (*Server, error) {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(corsMiddleware())

	server := &Server{
		logger:        logger,
		configManager: configManager,
		catalog:       engine.Catalog(),
		engine:        engine,
		sessions:      sessions,
		assistant:     assistantClient,
		feedback:      feedbackStore,
		router:        router,
	}

	// Setup routes
	if err := server.setupRoutes(); err != nil {
		return nil, err
	}

	return server, nil
}

// Router returns the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() error {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	assistantCfg := s.configManager.GetAssistantConfig()
	chatLimiter, err := middleware.NewRateLimiter(assistantCfg.RateLimit, assistantCfg.RateBurst)
	if err != nil {
		return fmt.Errorf("creating chat rate limiter: %w", err)
	}

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/materials", s.handleListMaterials)
		v1.GET("/materials/:id", s.handleGetMaterial)
		v1.GET("/bone-sites", s.handleListBoneSites)

		v1.POST("/sessions", s.handleCreateSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.DELETE("/sessions/:id", s.handleDeleteSession)
		v1.PATCH("/sessions/:id/inputs", s.handlePatchInputs)

		v1.POST("/sessions/:id/analysis", s.handleRunAnalysis)
		v1.GET("/sessions/:id/analysis", s.handleGetAnalysis)

		v1.POST("/sessions/:id/report", s.handleGenerateReport)
		v1.GET("/sessions/:id/report", s.handleGetReport)

		v1.POST("/sessions/:id/chat", chatLimiter.Handler(), s.handleChat)
		v1.GET("/sessions/:id/stream", s.handleStream)

		v1.POST("/feedback", s.handleSaveFeedback)
		v1.GET("/feedback", s.handleListFeedback)
		v1.GET("/feedback/export", s.handleExportFeedback)
	}

	return nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   "1.0.0",
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
