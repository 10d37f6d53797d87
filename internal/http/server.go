// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	membershipHTTP "github.com/allisson/membertoken/internal/membership/http"
	"github.com/allisson/membertoken/internal/metrics"
)

// Server represents the HTTP API server.
type Server struct {
	db               *sql.DB
	server           *http.Server
	router           *gin.Engine
	logger           *slog.Logger
	databaseOptional bool
}

// RouterDependencies holds the handlers and middleware mounted by SetupRouter.
// Nil optional members disable the matching feature.
type RouterDependencies struct {
	TokenHandler         *membershipHTTP.TokenHandler
	IssuanceLogHandler   *membershipHTTP.IssuanceLogHandler
	IssuerAuthMiddleware gin.HandlerFunc
	RateLimitMiddleware  gin.HandlerFunc
	MetricsProvider      *metrics.Provider
	MetricsNamespace     string
	CORSEnabled          bool
	CORSAllowOrigins     string
}

// NewServer creates a new HTTP server. db may be nil when nothing requires a database.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router with the health endpoints and the membership API.
//
// Routes:
//   - GET  /health
//   - GET  /ready
//   - POST /v1/membership/tokens              (issuer key)
//   - POST /v1/membership/tokens/verify       (rate limited)
//   - GET  /v1/membership/issuance-logs       (issuer key, when the issuance log is enabled)
func (s *Server) SetupRouter(deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(deps.CORSEnabled, deps.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), deps.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1/membership")
	{
		verifyHandlers := []gin.HandlerFunc{}
		if deps.RateLimitMiddleware != nil {
			verifyHandlers = append(verifyHandlers, deps.RateLimitMiddleware)
		}
		verifyHandlers = append(verifyHandlers, deps.TokenHandler.VerifyHandler)
		v1.POST("/tokens/verify", verifyHandlers...)

		issuers := v1.Group("")
		issuers.Use(deps.IssuerAuthMiddleware)
		issuers.POST("/tokens", deps.TokenHandler.IssueHandler)

		if deps.IssuanceLogHandler != nil {
			issuers.GET("/issuance-logs", deps.IssuanceLogHandler.ListHandler)
		}
	}

	s.databaseOptional = deps.IssuanceLogHandler == nil
	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server's dependencies are reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	switch {
	case s.db != nil:
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", "database"), slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	case s.databaseOptional:
		components["database"] = "disabled"
	default:
		components["database"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
