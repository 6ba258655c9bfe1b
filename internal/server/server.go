package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/config"
	"github.com/taleniq/ai-gateway/internal/server/middleware"
	"github.com/taleniq/ai-gateway/internal/server/validator"
	v1 "github.com/taleniq/ai-gateway/internal/server/v1"
)

const serviceName = "ai-gateway"

// Handlers bundles the route handlers wired in main.
type Handlers struct {
	Chat  *v1.ChatHandler
	Image *v1.ImageHandler
	Video *v1.VideoHandler
	Debug *v1.DebugHandler
	Usage *v1.UsageHandler
}

type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

func New(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()
	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Tracing(serviceName))

	s := &Server{
		router:   engine,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer builds the net/http server with timeouts sized so that a
// blocking video poll can finish before the connection is cut.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}
}

// RateLimiter builds the per-client limiter from config.
func (s *Server) rateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)
}
