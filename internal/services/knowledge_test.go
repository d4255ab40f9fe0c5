package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/retrieval"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type countingEmbedder struct {
	calls  int
	inputs [][]string
}

func (e *countingEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	e.calls++
	e.inputs = append(e.inputs, inputs)
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{float32(i), 1, 0}
	}
	return out, nil
}

const seedYAML = `documents:
  - title: Goroutine scheduling
    body: The Go runtime multiplexes goroutines onto OS threads.
    category: concurrency
    difficulty: intermediate
    tags: [go, runtime]
    references:
      - https://go.dev/doc
  - title: Borrow checker basics
    body: Rust ownership rules prevent data races at compile time.
    category: memory-safety
    difficulty: beginner
    tags: [rust]
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedFromYAMLIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := repos.NewKnowledgeDocumentRepo(db, mustLogger(t))
	svc := NewKnowledgeService(db, mustLogger(t), nil, repo)
	path := writeSeedFile(t, seedYAML)

	n, err := svc.SeedFromYAML(context.Background(), path)
	if err != nil {
		t.Fatalf("SeedFromYAML: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded = %d, want 2", n)
	}
	if _, err := svc.SeedFromYAML(context.Background(), path); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	var count int64
	if dbErr := db.Model(&types.KnowledgeDocument{}).Count(&count).Error; dbErr != nil {
		t.Fatalf("count: %v", dbErr)
	}
	if count != 2 {
		t.Fatalf("documents after re-seed = %d, want 2", count)
	}
}

func TestSeedFromYAMLSkipsIncompleteDocuments(t *testing.T) {
	db := openTestDB(t)
	repo := repos.NewKnowledgeDocumentRepo(db, mustLogger(t))
	svc := NewKnowledgeService(db, mustLogger(t), nil, repo)
	path := writeSeedFile(t, "documents:\n  - title: Only a title\n  - title: Complete\n    body: Has a body.\n")

	n, err := svc.SeedFromYAML(context.Background(), path)
	if err != nil {
		t.Fatalf("SeedFromYAML: %v", err)
	}
	if n != 1 {
		t.Fatalf("seeded = %d, want 1", n)
	}
}

func TestEmbedMissingStoresVectorsAndIsIncremental(t *testing.T) {
	db := openTestDB(t)
	log := mustLogger(t)
	repo := repos.NewKnowledgeDocumentRepo(db, log)
	embedder := &countingEmbedder{}
	svc := NewKnowledgeService(db, log, embedder, repo)

	if _, err := svc.SeedFromYAML(context.Background(), writeSeedFile(t, seedYAML)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := svc.EmbedMissing(context.Background(), 2)
	if err != nil {
		t.Fatalf("EmbedMissing: %v", err)
	}
	if n != 2 {
		t.Fatalf("embedded = %d, want 2", n)
	}
	if embedder.calls != 1 {
		t.Fatalf("embed calls = %d, want a single batch", embedder.calls)
	}

	docs, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, doc := range docs {
		if _, ok := retrieval.ParseEmbedding(doc.Embedding); !ok {
			t.Fatalf("document %q has no stored embedding", doc.Title)
		}
	}

	// A second pass finds nothing to do.
	n, err = svc.EmbedMissing(context.Background(), 2)
	if err != nil {
		t.Fatalf("second EmbedMissing: %v", err)
	}
	if n != 0 {
		t.Fatalf("second pass embedded = %d, want 0", n)
	}
	if embedder.calls != 1 {
		t.Fatalf("embed calls after second pass = %d", embedder.calls)
	}
}
