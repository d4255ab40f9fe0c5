package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pathwise/pathwise-backend/internal/clients/openai"
	"github.com/pathwise/pathwise-backend/internal/clients/redcache"
	"github.com/pathwise/pathwise-backend/internal/db"
	"github.com/pathwise/pathwise-backend/internal/generation"
	"github.com/pathwise/pathwise-backend/internal/handlers"
	"github.com/pathwise/pathwise-backend/internal/middleware"
	"github.com/pathwise/pathwise-backend/internal/observability"
	"github.com/pathwise/pathwise-backend/internal/pkg/envutil"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/retrieval"
	"github.com/pathwise/pathwise-backend/internal/server"
	"github.com/pathwise/pathwise-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "pathwise-backend",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Database
	log.Info("Setting up database from main...")
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	knowledgeRepo := repos.NewKnowledgeDocumentRepo(theDB, log)
	roadmapRepo := repos.NewRoadmapRepo(theDB, log)
	detailRepo := repos.NewSubtaskDetailRepo(theDB, log)
	quizRepo := repos.NewQuizQuestionRepo(theDB, log)
	runRepo := repos.NewGenerationRunRepo(theDB, log)

	// Clients
	log.Info("Setting up clients from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	embedCache, err := redcache.NewEmbeddingCache(log)
	if err != nil {
		log.Warn("Redis embedding cache unavailable; retrieval will embed every query", "error", err)
		embedCache = nil
	}

	// Services
	log.Info("Setting up services from main...")
	gen := generation.NewGenerator(log, openaiClient)
	retriever := retrieval.NewRetriever(log, openaiClient, embedCache)
	roadmapService := services.NewRoadmapService(
		theDB, log, gen, retriever, openaiClient,
		knowledgeRepo, roadmapRepo, detailRepo, quizRepo, runRepo,
	)
	knowledgeService := services.NewKnowledgeService(theDB, log, openaiClient, knowledgeRepo)

	if seedPath := envutil.GetEnv("KNOWLEDGE_SEED_PATH", "", log); seedPath != "" {
		n, seedErr := knowledgeService.SeedFromYAML(context.Background(), seedPath)
		if seedErr != nil {
			log.Warn("Knowledge corpus seed failed", "path", seedPath, "error", seedErr)
		} else {
			log.Info("Knowledge corpus seeded", "path", seedPath, "documents", n)
		}
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	roadmapHandler := handlers.NewRoadmapHandler(log, roadmapService)
	subtaskDetailHandler := handlers.NewSubtaskDetailHandler(log, roadmapService)
	tutorialHandler := handlers.NewTutorialHandler(log, roadmapService)
	quizHandler := handlers.NewQuizHandler(log, roadmapService)
	knowledgeHandler := handlers.NewKnowledgeHandler(log, knowledgeService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:          "pathwise-backend",
		RequestLog:           middleware.NewRequestLogMiddleware(log),
		RoadmapHandler:       roadmapHandler,
		SubtaskDetailHandler: subtaskDetailHandler,
		TutorialHandler:      tutorialHandler,
		QuizHandler:          quizHandler,
		KnowledgeHandler:     knowledgeHandler,
	})

	port := envutil.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
