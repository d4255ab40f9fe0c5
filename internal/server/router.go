package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pathwise/pathwise-backend/internal/handlers"
	"github.com/pathwise/pathwise-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName          string
	RequestLog           *middleware.RequestLogMiddleware
	RoadmapHandler       *handlers.RoadmapHandler
	SubtaskDetailHandler *handlers.SubtaskDetailHandler
	TutorialHandler      *handlers.TutorialHandler
	QuizHandler          *handlers.QuizHandler
	KnowledgeHandler     *handlers.KnowledgeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Log())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Roadmaps
		api.POST("/roadmaps/generate", cfg.RoadmapHandler.Generate)
		api.GET("/roadmaps/:id", cfg.RoadmapHandler.GetByID)
		// Subtask details
		api.POST("/subtask-details/generate", cfg.SubtaskDetailHandler.Generate)
		// Tutorials
		api.POST("/tutorials/generate", cfg.TutorialHandler.Generate)
		api.POST("/tutorials/generate/stream", cfg.TutorialHandler.GenerateStream)
		// Quizzes
		api.POST("/quizzes/generate", cfg.QuizHandler.Generate)
		// Knowledge corpus
		api.GET("/knowledge", cfg.KnowledgeHandler.List)
		api.GET("/knowledge/:id", cfg.KnowledgeHandler.GetByID)
		// Generation audit
		api.GET("/generation-runs", cfg.RoadmapHandler.ListRuns)
	}

	return router
}
