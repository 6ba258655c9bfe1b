package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taleniq/ai-gateway/internal/server/middleware"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.AuthToken())
	s.router.Use(middleware.ErrorHandler(s.logger))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/v1")
	api.Use(s.rateLimiter().Middleware())
	{
		api.GET("/debug", s.handlers.Debug.Diagnostics)
		api.GET("/usage", s.handlers.Usage.Overview)

		api.POST("/openai/chat", s.handlers.Chat.OpenAIChat)
		api.POST("/gemini/chat", s.handlers.Chat.GeminiChat)
		api.POST("/minimax/chat", s.handlers.Chat.MiniMaxChat)

		api.POST("/openai/images", s.handlers.Image.OpenAIImage)
		api.POST("/minimax/images", s.handlers.Image.MiniMaxImage)
		api.POST("/proprietary/images", s.handlers.Image.ProprietaryImage)

		api.POST("/openai/video", s.handlers.Video.OpenAISubmit)
		api.GET("/openai/video", s.handlers.Video.OpenAIStatus)
		api.GET("/openai/video/download", s.handlers.Video.OpenAIDownload)

		api.POST("/minimax/video", s.handlers.Video.MiniMaxGenerate)
		api.GET("/minimax/video/download", s.handlers.Video.MiniMaxDownload)

		api.POST("/proprietary/video", s.handlers.Video.ProprietaryGenerate)
		api.GET("/proprietary/video/status", s.handlers.Video.ProprietaryStatus)
	}
}
