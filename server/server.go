package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskkeep/configs"
	"taskkeep/delivery/rest"
	"taskkeep/delivery/rest/middleware"
	"taskkeep/delivery/websocket"
)

// Server wraps the gin engine
type Server struct {
	engine     *gin.Engine
	config     configs.ServerConfig
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates the HTTP server with all routes registered.
func New(cfg configs.ServerConfig, h *rest.Handler, hub *websocket.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.CORS())

	s := &Server{
		engine: engine,
		config: cfg,
		logger: logger,
	}
	s.registerRoutes(h, hub)
	return s
}

func (s *Server) registerRoutes(h *rest.Handler, hub *websocket.Hub) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	if hub != nil {
		s.engine.GET("/ws", websocket.ServeWS(hub))
	}

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/tasks", h.CreateTask)
		v1.GET("/tasks", h.ListTasks)
		v1.PUT("/tasks/:id", h.UpdateTask)
		v1.DELETE("/tasks/:id", h.DeleteTask)
		v1.POST("/tasks/:id/complete", h.CompleteTask)
		v1.POST("/tasks/:id/reminder", h.ScheduleReminder)
		v1.DELETE("/tasks/:id/reminder", h.CancelReminder)

		v1.GET("/completed", h.ListCompleted)
		v1.GET("/history", h.GetHistory)
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address(),
		Handler: s.engine,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", s.config.Address()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
