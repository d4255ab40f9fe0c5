package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gopkg.in/yaml.v3"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/retrieval"
	"github.com/pathwise/pathwise-backend/internal/types"
)

// embedBatchSize bounds how many documents each embedding request carries.
const embedBatchSize = 32

type seedDocument struct {
	Title      string   `yaml:"title"`
	Body       string   `yaml:"body"`
	Category   string   `yaml:"category"`
	Difficulty string   `yaml:"difficulty"`
	Tags       []string `yaml:"tags"`
	References []string `yaml:"references"`
}

type seedFile struct {
	Documents []seedDocument `yaml:"documents"`
}

type KnowledgeService interface {
	List(ctx context.Context) ([]*types.KnowledgeDocument, error)
	Get(ctx context.Context, id uuid.UUID) (*types.KnowledgeDocument, error)
	SeedFromYAML(ctx context.Context, path string) (int, error)
	EmbedMissing(ctx context.Context, concurrency int) (int, error)
}

type knowledgeService struct {
	db       *gorm.DB
	log      *logger.Logger
	embedder retrieval.Embedder
	repo     repos.KnowledgeDocumentRepo
}

func NewKnowledgeService(db *gorm.DB, baseLog *logger.Logger, embedder retrieval.Embedder, repo repos.KnowledgeDocumentRepo) KnowledgeService {
	return &knowledgeService{
		db:       db,
		log:      baseLog.With("service", "KnowledgeService"),
		embedder: embedder,
		repo:     repo,
	}
}

func (s *knowledgeService) List(ctx context.Context) ([]*types.KnowledgeDocument, error) {
	return s.repo.List(ctx, nil)
}

func (s *knowledgeService) Get(ctx context.Context, id uuid.UUID) (*types.KnowledgeDocument, error) {
	docs, err := s.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// SeedFromYAML upserts the documents of a corpus file. Document identity is a
// deterministic uuid derived from the title, so re-seeding updates rather
// than duplicates. Embeddings are left to EmbedMissing.
func (s *knowledgeService) SeedFromYAML(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	now := time.Now()
	docs := make([]*types.KnowledgeDocument, 0, len(file.Documents))
	for _, sd := range file.Documents {
		if sd.Title == "" || sd.Body == "" {
			s.log.Warn("Skipping seed document without title or body", "title", sd.Title)
			continue
		}
		tags, _ := json.Marshal(sd.Tags)
		refs, _ := json.Marshal(sd.References)
		docs = append(docs, &types.KnowledgeDocument{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte("knowledge:"+sd.Title)),
			Title:      sd.Title,
			Body:       sd.Body,
			Category:   sd.Category,
			Difficulty: sd.Difficulty,
			Tags:       datatypes.JSON(tags),
			References: datatypes.JSON(refs),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := s.repo.Upsert(ctx, nil, docs); err != nil {
		return 0, fmt.Errorf("upsert seed documents: %w", err)
	}
	return len(docs), nil
}

// EmbedMissing embeds every document without a cached vector, in batches,
// with at most concurrency batches in flight. Returns how many documents
// were embedded.
func (s *knowledgeService) EmbedMissing(ctx context.Context, concurrency int) (int, error) {
	if s.embedder == nil {
		return 0, fmt.Errorf("embedder not configured")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	missing, err := s.repo.ListMissingEmbeddings(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list documents missing embeddings: %w", err)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for start := 0; start < len(missing); start += embedBatchSize {
		batch := missing[start:min(start+embedBatchSize, len(missing))]
		g.Go(func() error {
			inputs := make([]string, len(batch))
			for i, doc := range batch {
				inputs[i] = retrieval.DocumentEmbedText(doc)
			}
			vectors, err := s.embedder.Embed(gctx, inputs)
			if err != nil {
				return fmt.Errorf("embed batch of %d: %w", len(batch), err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embed batch: got %d vectors for %d inputs", len(vectors), len(batch))
			}
			for i, doc := range batch {
				payload, mErr := json.Marshal(vectors[i])
				if mErr != nil {
					return fmt.Errorf("marshal embedding for %s: %w", doc.Title, mErr)
				}
				if uErr := s.repo.UpdateEmbedding(gctx, nil, doc.ID, datatypes.JSON(payload)); uErr != nil {
					return fmt.Errorf("store embedding for %s: %w", doc.Title, uErr)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	s.log.Info("Embedded knowledge documents", "count", len(missing))
	return len(missing), nil
}
