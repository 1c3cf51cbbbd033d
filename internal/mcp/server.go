// Package mcp exposes the compatibility engine over the Model Context
// Protocol. The server is self-contained: it needs no external databases
// beyond the local SQLite feedback store.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/config"
	"github.com/biomatch-omni-server/internal/feedback"
	"github.com/biomatch-omni-server/internal/scoring"
)

// Server wires the scoring engine and feedback store into an MCP server
// speaking over stdio.
type Server struct {
	config        *config.LiteConfig
	mcpServer     *mcp.Server
	engine        *scoring.Engine
	catalog       *catalog.Catalog
	feedbackStore feedback.Store
	logger        *logrus.Logger
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server) error

// WithFeedbackStore sets a custom feedback store.
func WithFeedbackStore(store feedback.Store) ServerOption {
	return func(s *Server) error {
		s.feedbackStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a new MCP server instance over the default catalog.
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	server := &Server{
		config: cfg,
		logger: logrus.New(),
	}

	if cfg.LogFormat == "text" {
		server.logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		server.logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	server.logger.SetLevel(level)

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	server.catalog = cat
	server.engine = scoring.NewEngine(server.logger, cat)

	// The export directory is needed even with an injected store.
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if server.feedbackStore == nil {
		store, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback store: %w", err)
		}
		server.feedbackStore = store
	}

	serverInfo := &mcp.Implementation{
		Name:    "biomatch-mcp-server",
		Version: "v0.1.0",
	}
	server.mcpServer = mcp.NewServer(serverInfo, nil)

	server.registerTools()

	server.logger.Info("MCP server initialized successfully")
	return server, nil
}

// registerTools registers all tools with the MCP SDK.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_material",
		Description: "Score one biomaterial against a bone site and patient weight. Returns the five-factor compatibility breakdown.",
	}, s.handleScoreMaterial)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rank_materials",
		Description: "Rank the full material catalog for a bone site and patient weight, best match first.",
	}, s.handleRankMaterials)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_report",
		Description: "Generate the narrative compatibility report for a material, bone site and patient context.",
	}, s.handleGenerateReport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_feedback",
		Description: "Record clinician feedback on a material recommendation for a bone site.",
	}, s.handleSaveFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_feedback",
		Description: "List stored clinician feedback entries with pagination.",
	}, s.handleListFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_feedback",
		Description: "Export all clinician feedback to a JSON file in the export directory.",
	}, s.handleExportFeedback)

	s.logger.WithField("tool_count", 6).Info("Registered MCP tools")
}

// Start runs the MCP server over stdio until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting BIO-MATCH MCP server...")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.feedbackStore != nil {
		if err := s.feedbackStore.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close feedback store")
			return err
		}
	}
	return nil
}
