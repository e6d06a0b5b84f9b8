package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/config"
	"github.com/KevinKickass/PanelSchema/internal/pipeline"
	"github.com/KevinKickass/PanelSchema/internal/schema"
)

type Server struct {
	router       *gin.Engine
	engine       *pipeline.Engine
	logger       *zap.Logger
	server       *http.Server
	maxBodyBytes int64
}

func NewServer(cfg *config.Config, engine *pipeline.Engine, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:       gin.New(),
		engine:       engine,
		logger:       logger,
		maxBodyBytes: cfg.Server.MaxBodyBytes,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware())
	if s.maxBodyBytes > 0 {
		s.router.Use(BodyLimitMiddleware(s.maxBodyBytes))
	}

	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/schema", s.panelSchema)
		v1.POST("/validate", s.validate)
		v1.POST("/check", s.check)
		v1.POST("/repair", s.repair)
		v1.POST("/copy-configs", s.copyConfigs)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"timestamp":  time.Now().Unix(),
		"production": s.engine.Production(),
	})
}

// GET /api/v1/schema serves the JSON Schema documents are validated
// against, for editors and client-side checks.
func (s *Server) panelSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/schema+json", schema.Document())
}
