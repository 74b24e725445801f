// Package http exposes the quote services over a JSON API.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/quotebook/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthReporter returns overall health and a detail payload for /health
type HealthReporter func(ctx context.Context) (bool, interface{})

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		Mode:         gin.ReleaseMode,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Services lists the application services the API serves
type Services struct {
	Settings  service.SettingsService
	Quotes    service.QuoteService
	Tutorial  service.TutorialService
	Export    service.ExportService
	Draft     service.DraftService
	Workspace *service.Workspace
	Health    HealthReporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	mode := config.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(s.loggingMiddleware())

	// CORS for a browser front end served from another origin
	s.router.Use(corsMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.logger)

	// Health check
	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api/v1")
	api.GET("/health", h.HealthCheck)

	quotes := api.Group("/quotes")
	{
		quotes.GET("", h.ListQuotes)
		quotes.POST("", h.CreateQuote)
		quotes.GET("/counts", h.StatusCounts)
		quotes.GET("/:id", h.GetQuote)
		quotes.PUT("/:id", h.SaveQuote)
		quotes.DELETE("/:id", h.DeleteQuote)
		quotes.POST("/:id/edit", h.EditQuote)
		quotes.POST("/:id/duplicate", h.DuplicateQuote)
		quotes.PUT("/:id/status", h.UpdateQuoteStatus)
		quotes.PUT("/:id/template", h.ApplyTemplate)
		quotes.GET("/:id/totals", h.QuoteTotals)
		quotes.GET("/:id/export/:format", h.ExportQuote)
		quotes.GET("/:id/mailto", h.Mailto)
	}

	api.GET("/dashboard", h.Dashboard)
	api.GET("/templates", h.ListTemplates)
	api.GET("/export/library", h.ExportLibrary)
	api.GET("/export/formats", h.ExportFormats)

	workspace := api.Group("/workspace")
	{
		workspace.GET("", h.GetWorkspace)
		workspace.PUT("/draft", h.UpdateDraft)
		workspace.PUT("/template", h.ApplyWorkspaceTemplate)
		workspace.PUT("/preview", h.SetPreview)
		workspace.PUT("/editing", h.SetEditing)
		workspace.PUT("/tab", h.SetTab)
		workspace.POST("/save", h.SaveCurrent)
		workspace.POST("/close", h.CloseEditor)
		workspace.POST("/flush", h.FlushWorkspace)
		workspace.GET("/export/:format", h.ExportCurrent)
	}

	ai := api.Group("/ai")
	{
		ai.POST("/items", h.DraftItems)
		ai.POST("/items/append", h.AppendDraftItems)
		ai.POST("/polish", h.PolishDescription)
		ai.POST("/terms", h.GenerateTerms)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("/company", h.UpdateCompany)
		settings.PUT("/defaults", h.UpdateDefaults)
		settings.PUT("/theme", h.UpdateTheme)
		settings.PUT("/language", h.SetLanguage)
		settings.PUT("/numbering", h.SetNumbering)
		settings.PUT("/branding", h.SetBranding)
		settings.PUT("/custom-fields", h.SetCustomFields)
		settings.PUT("/monthly-goal", h.SetMonthlyGoal)
		settings.PUT("/tutorial-level", h.SetTutorialLevel)
	}

	tour := api.Group("/tutorial")
	{
		tour.GET("", h.TutorialState)
		tour.POST("/start", h.StartTutorial)
		tour.POST("/stop", h.StopTutorial)
		tour.POST("/toggle", h.ToggleTutorial)
		tour.POST("/events", h.DispatchTutorialEvent)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
