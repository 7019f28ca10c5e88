package ui

import (
	"net/http"

	"lifeconnect/internal"
	"lifeconnect/internal/container"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP API server for LifeConnect
type Server struct {
	router    *gin.Engine
	container *container.Container
	logger    *internal.Logger
}

// NewServer creates a new API server instance
func NewServer(c *container.Container) *Server {
	if c.Config.Server.GinMode != "" {
		gin.SetMode(c.Config.Server.GinMode)
	}

	s := &Server{
		router:    gin.Default(),
		container: c,
		logger:    c.Logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/users/:userID/connections/analyze", s.handleAnalyze)
		api.GET("/users/:userID/connections", s.handleListConnections)
		api.POST("/users/:userID/connections/:connectionID/dismiss", s.handleDismissConnection)
		api.POST("/users/:userID/connections/:connectionID/rating", s.handleRateConnection)
	}
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting LifeConnect API on http://%s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying gin engine for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.container.DB != nil {
		if err := s.container.DB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
