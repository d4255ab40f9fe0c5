package redcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pathwise/pathwise-backend/internal/pkg/ctxutil"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
)

// EmbeddingCache caches query-embedding vectors keyed by input hash. Topic
// strings repeat heavily across users, so a hit skips one upstream call.
// All methods are nil-safe: a nil cache behaves as a permanent miss.
type EmbeddingCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewEmbeddingCache(log *logger.Logger) (*EmbeddingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("REDIS_EMBED_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &EmbeddingCache{
		log: log.With("service", "EmbeddingCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "embed:" + hex.EncodeToString(sum[:])
}

func (c *EmbeddingCache) Get(ctx context.Context, input string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctxutil.Default(ctx), cacheKey(input)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

func (c *EmbeddingCache) Put(ctx context.Context, input string, vec []float32) {
	if c == nil || c.rdb == nil || len(vec) == 0 {
		return
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctxutil.Default(ctx), cacheKey(input), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Embedding cache write failed", "error", err)
	}
}

func (c *EmbeddingCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
