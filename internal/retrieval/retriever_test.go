package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"gorm.io/datatypes"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
	inputs  [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	f.inputs = append(f.inputs, inputs)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, ok := f.vectors[in]
		if !ok {
			vec = []float32{1, 0, 0}
		}
		out[i] = vec
	}
	return out, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func storedVec(t *testing.T, v []float32) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal vec: %v", err)
	}
	return datatypes.JSON(raw)
}

func TestCosineIdentities(t *testing.T) {
	v := []float32{0.3, -0.4, 0.5}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("cosine(v,v) = %v, want 1.0", got)
	}
	if got := Cosine(v, []float32{0, 0, 0}); got != 0 {
		t.Fatalf("cosine against zero vector = %v, want 0", got)
	}
	if got := Cosine([]float32{0, 0, 0}, v); got != 0 {
		t.Fatalf("cosine of zero vector = %v, want 0", got)
	}
	if got := Cosine(v, []float32{1, 0}); got != 0 {
		t.Fatalf("cosine of mismatched lengths = %v, want 0", got)
	}
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	fe := &fakeEmbedder{}
	r := NewRetriever(testLogger(t), fe, nil)

	got, degraded := r.Retrieve(context.Background(), "anything", nil, 3)
	if len(got) != 0 || degraded {
		t.Fatalf("empty corpus: got %d docs, degraded=%v", len(got), degraded)
	}
	if fe.calls != 0 {
		t.Fatalf("empty corpus must not call the embedder, got %d calls", fe.calls)
	}
}

func TestRetrieveOrdersByDescendingScoreAndCapsAtK(t *testing.T) {
	corpus := []*types.KnowledgeDocument{
		{Title: "far", Embedding: storedVec(t, []float32{0, 1, 0})},
		{Title: "near", Embedding: storedVec(t, []float32{1, 0.1, 0})},
		{Title: "exact", Embedding: storedVec(t, []float32{1, 0, 0})},
		{Title: "mid", Embedding: storedVec(t, []float32{1, 1, 0})},
	}
	fe := &fakeEmbedder{vectors: map[string][]float32{"golang": {1, 0, 0}}}
	r := NewRetriever(testLogger(t), fe, nil)

	got, degraded := r.Retrieve(context.Background(), "golang", corpus, 3)
	if degraded {
		t.Fatalf("unexpected degraded result")
	}
	if len(got) != 3 {
		t.Fatalf("want 3 docs, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("scores not non-increasing: %v then %v", got[i-1].Score, got[i].Score)
		}
	}
	if got[0].Doc.Title != "exact" {
		t.Fatalf("best match = %q, want exact", got[0].Doc.Title)
	}
	// Only the query needed embedding; all corpus vectors were stored.
	if fe.calls != 1 {
		t.Fatalf("want 1 embed call, got %d", fe.calls)
	}
}

func TestRetrieveBatchesMissingCorpusEmbeddings(t *testing.T) {
	corpus := []*types.KnowledgeDocument{
		{Title: "cached", Embedding: storedVec(t, []float32{1, 0, 0})},
		{Title: "uncached-a"},
		{Title: "uncached-b"},
	}
	fe := &fakeEmbedder{vectors: map[string][]float32{}}
	r := NewRetriever(testLogger(t), fe, nil)

	got, degraded := r.Retrieve(context.Background(), "query", corpus, 10)
	if degraded {
		t.Fatalf("unexpected degraded result")
	}
	if len(got) != 3 {
		t.Fatalf("want 3 docs, got %d", len(got))
	}
	// One call for the query, one batched call for both missing documents.
	if fe.calls != 2 {
		t.Fatalf("want 2 embed calls, got %d", fe.calls)
	}
	if len(fe.inputs[1]) != 2 {
		t.Fatalf("missing docs must be embedded in one batch, got %d inputs", len(fe.inputs[1]))
	}
}

func TestRetrieveSwallowsEmbeddingFailure(t *testing.T) {
	corpus := []*types.KnowledgeDocument{{Title: "doc"}}
	fe := &fakeEmbedder{err: fmt.Errorf("upstream down")}
	r := NewRetriever(testLogger(t), fe, nil)

	got, degraded := r.Retrieve(context.Background(), "query", corpus, 5)
	if len(got) != 0 {
		t.Fatalf("failed retrieval must return no documents, got %d", len(got))
	}
	if !degraded {
		t.Fatalf("failed retrieval must be flagged degraded")
	}
}

func TestDocumentEmbedTextCapsBody(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	doc := &types.KnowledgeDocument{Title: "t", Category: "c", Body: string(long)}
	text := DocumentEmbedText(doc)
	if len(text) > 2100 {
		t.Fatalf("embed text not capped: %d chars", len(text))
	}
}
