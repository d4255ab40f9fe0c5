package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pathwise/pathwise-backend/internal/clients/openai"
	"github.com/pathwise/pathwise-backend/internal/db"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/services"
)

// embedcorpus seeds the knowledge corpus from a YAML file (optional) and
// embeds every document that has no stored vector.
func main() {
	seedPath := flag.String("seed", "", "path to a corpus YAML file to upsert before embedding")
	concurrency := flag.Int("concurrency", 4, "max embedding batches in flight")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	repo := repos.NewKnowledgeDocumentRepo(dbService.DB(), log)
	svc := services.NewKnowledgeService(dbService.DB(), log, openaiClient, repo)

	if *seedPath != "" {
		n, seedErr := svc.SeedFromYAML(ctx, *seedPath)
		if seedErr != nil {
			log.Error("Seed failed", "path", *seedPath, "error", seedErr)
			os.Exit(1)
		}
		log.Info("Seeded corpus", "path", *seedPath, "documents", n)
	}

	n, err := svc.EmbedMissing(ctx, *concurrency)
	if err != nil {
		log.Error("Embedding backfill failed", "error", err)
		os.Exit(1)
	}
	log.Info("Embedding backfill complete", "documents", n)
}
