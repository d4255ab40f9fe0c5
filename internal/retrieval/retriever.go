package retrieval

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"gorm.io/datatypes"

	"github.com/pathwise/pathwise-backend/internal/clients/redcache"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

// Embedder is the slice of the OpenAI client retrieval needs.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// ScoredDocument pairs a corpus document with its cosine similarity against
// one query. Ephemeral; never persisted.
type ScoredDocument struct {
	Doc   *types.KnowledgeDocument
	Score float64
}

// bodyEmbedCap bounds the body text sent to the embedding endpoint.
const bodyEmbedCap = 2000

type Retriever struct {
	log   *logger.Logger
	ai    Embedder
	cache *redcache.EmbeddingCache
}

// NewRetriever builds a retriever. cache may be nil; it then behaves as a
// permanent miss.
func NewRetriever(log *logger.Logger, ai Embedder, cache *redcache.EmbeddingCache) *Retriever {
	return &Retriever{
		log:   log.With("service", "Retriever"),
		ai:    ai,
		cache: cache,
	}
}

// Retrieve returns the top k corpus documents by cosine similarity to query,
// sorted descending. Grounding is best-effort: any embedding failure yields
// an empty result with degraded=true rather than an error, and generation
// proceeds ungrounded.
func (r *Retriever) Retrieve(ctx context.Context, query string, corpus []*types.KnowledgeDocument, k int) ([]ScoredDocument, bool) {
	if len(corpus) == 0 || k <= 0 {
		return []ScoredDocument{}, false
	}

	queryVec, ok := r.cache.Get(ctx, query)
	if !ok {
		vecs, err := r.ai.Embed(ctx, []string{query})
		if err != nil || len(vecs) != 1 {
			r.log.Warn("Query embedding failed; skipping grounding", "error", err)
			return []ScoredDocument{}, true
		}
		queryVec = vecs[0]
		r.cache.Put(ctx, query, queryVec)
	}

	// Stored vectors are reused; only documents without one cost an upstream
	// call, and those go out as a single batch.
	docVecs := make([][]float32, len(corpus))
	missingIdx := make([]int, 0)
	missingTexts := make([]string, 0)
	for i, doc := range corpus {
		if vec, ok := ParseEmbedding(doc.Embedding); ok {
			docVecs[i] = vec
			continue
		}
		missingIdx = append(missingIdx, i)
		missingTexts = append(missingTexts, DocumentEmbedText(doc))
	}
	if len(missingTexts) > 0 {
		vecs, err := r.ai.Embed(ctx, missingTexts)
		if err != nil || len(vecs) != len(missingTexts) {
			r.log.Warn("Corpus embedding failed; skipping grounding",
				"missing", len(missingTexts),
				"error", err,
			)
			return []ScoredDocument{}, true
		}
		for j, i := range missingIdx {
			docVecs[i] = vecs[j]
		}
	}

	scored := make([]ScoredDocument, 0, len(corpus))
	for i, doc := range corpus {
		scored = append(scored, ScoredDocument{Doc: doc, Score: Cosine(queryVec, docVecs[i])})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], false
}

// Cosine is dot(a,b)/(||a||*||b||), 0 when either norm is 0 or lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// DocumentEmbedText is the canonical embedding input for a corpus document:
// title, category, capped body, tags.
func DocumentEmbedText(doc *types.KnowledgeDocument) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	if doc.Category != "" {
		b.WriteString("\n")
		b.WriteString(doc.Category)
	}
	body := doc.Body
	if len(body) > bodyEmbedCap {
		body = body[:bodyEmbedCap]
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	if tags := parseTags(doc.Tags); len(tags) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(tags, " "))
	}
	return b.String()
}

func parseTags(js datatypes.JSON) []string {
	if len(js) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(js, &tags); err != nil {
		return nil
	}
	return tags
}

// ParseEmbedding decodes a stored vector column. Accepts float32 or float64
// encodings.
func ParseEmbedding(js datatypes.JSON) ([]float32, bool) {
	if len(js) == 0 {
		return nil, false
	}
	var v []float32
	if err := json.Unmarshal(js, &v); err != nil {
		var f64 []float64
		if err2 := json.Unmarshal(js, &f64); err2 != nil {
			return nil, false
		}
		v = make([]float32, len(f64))
		for i := range f64 {
			v[i] = float32(f64[i])
		}
	}
	if len(v) == 0 {
		return nil, false
	}
	return v, true
}
