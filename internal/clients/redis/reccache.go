package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

// RecommendationCache holds generated recommendation sets keyed by
// (user, type). Entries expire with the set's validity window; feedback
// invalidates every type for the user at once.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID, recType string) (*types.CachedRecommendationSet, error)
	Put(ctx context.Context, set *types.CachedRecommendationSet) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
	Close() error
}

type recommendationCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRecommendationCache(log *logger.Logger) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_REC_PREFIX"))
	if prefix == "" {
		prefix = "rec"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recommendationCache{
		log:    log.With("service", "RecommendationCache"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

// NewRecommendationCacheWithClient wires an existing client, used by tests.
func NewRecommendationCacheWithClient(log *logger.Logger, rdb *goredis.Client) RecommendationCache {
	return &recommendationCache{log: log.With("service", "RecommendationCache"), rdb: rdb, prefix: "rec"}
}

func (c *recommendationCache) key(userID uuid.UUID, recType string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, userID, recType)
}

func (c *recommendationCache) Get(ctx context.Context, userID uuid.UUID, recType string) (*types.CachedRecommendationSet, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("recommendation cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, c.key(userID, recType)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var set types.CachedRecommendationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		c.log.Warn("dropping undecodable cache row", "type", recType, "error", err)
		_ = c.rdb.Del(ctx, c.key(userID, recType)).Err()
		return nil, nil
	}
	// Redis expiry already bounds the row; the timestamp check guards clock
	// skew between writer and reader.
	if !set.Fresh(time.Now().UTC()) {
		return nil, nil
	}
	return &set, nil
}

func (c *recommendationCache) Put(ctx context.Context, set *types.CachedRecommendationSet) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("recommendation cache not initialized")
	}
	if set == nil || set.UserID == uuid.Nil {
		return fmt.Errorf("invalid cache set")
	}
	ttl := time.Until(set.ValidUntil)
	if ttl <= 0 {
		return fmt.Errorf("cache set already expired")
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(set.UserID, set.Type), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (c *recommendationCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("recommendation cache not initialized")
	}
	keys := make([]string, 0, len(recommendation.Types()))
	for _, t := range recommendation.Types() {
		keys = append(keys, c.key(userID, t))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *recommendationCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
