package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

func integrationCache(t *testing.T) RecommendationCache {
	t.Helper()
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run Redis integration tests")
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 5 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis not ready: %v", err)
	}

	cache := NewRecommendationCacheWithClient(log, rdb)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func sampleSet(userID uuid.UUID, recType string, ttl time.Duration) *types.CachedRecommendationSet {
	now := time.Now().UTC()
	results := []types.RecommendationResult{
		{EntryID: uuid.New(), Score: 0.8, Reasons: []string{"popular with the community"}, Category: recommendation.CategoryCommunity},
	}
	return &types.CachedRecommendationSet{
		UserID:          userID,
		Type:            recType,
		Results:         results,
		GeneratedAt:     now,
		ValidUntil:      now.Add(ttl),
		TotalCandidates: len(results),
		AvgScore:        recommendation.AvgScoreOf(results),
	}
}

func TestRecommendationCache_PutGetRoundTrip(t *testing.T) {
	cache := integrationCache(t)
	ctx := context.Background()
	userID := uuid.New()

	miss, err := cache.Get(ctx, userID, recommendation.TypeMixed)
	if err != nil {
		t.Fatalf("Get on empty cache: %v", err)
	}
	if miss != nil {
		t.Fatalf("expected a miss, got %+v", miss)
	}

	set := sampleSet(userID, recommendation.TypeMixed, time.Minute)
	if err := cache.Put(ctx, set); err != nil {
		t.Fatalf("Put: %v", err)
	}

	hit, err := cache.Get(ctx, userID, recommendation.TypeMixed)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit == nil {
		t.Fatalf("expected a hit")
	}
	if hit.UserID != userID || len(hit.Results) != 1 || hit.Results[0].EntryID != set.Results[0].EntryID {
		t.Fatalf("round trip mangled the set: %+v", hit)
	}

	// Another type for the same user is a separate key.
	other, err := cache.Get(ctx, userID, recommendation.TypePersonal)
	if err != nil || other != nil {
		t.Fatalf("different type must not hit, got %+v (%v)", other, err)
	}
}

func TestRecommendationCache_PutRejectsExpiredSet(t *testing.T) {
	cache := integrationCache(t)

	set := sampleSet(uuid.New(), recommendation.TypeMixed, -time.Minute)
	if err := cache.Put(context.Background(), set); err == nil {
		t.Fatalf("an already-expired set must be rejected")
	}
}

func TestRecommendationCache_InvalidateClearsEveryType(t *testing.T) {
	cache := integrationCache(t)
	ctx := context.Background()
	userID := uuid.New()
	bystander := uuid.New()

	for _, recType := range recommendation.Types() {
		if err := cache.Put(ctx, sampleSet(userID, recType, time.Minute)); err != nil {
			t.Fatalf("Put %s: %v", recType, err)
		}
	}
	if err := cache.Put(ctx, sampleSet(bystander, recommendation.TypeMixed, time.Minute)); err != nil {
		t.Fatalf("Put bystander: %v", err)
	}

	if err := cache.Invalidate(ctx, userID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	for _, recType := range recommendation.Types() {
		hit, err := cache.Get(ctx, userID, recType)
		if err != nil {
			t.Fatalf("Get %s: %v", recType, err)
		}
		if hit != nil {
			t.Fatalf("type %s should be invalidated", recType)
		}
	}

	kept, err := cache.Get(ctx, bystander, recommendation.TypeMixed)
	if err != nil || kept == nil {
		t.Fatalf("another user's cache must survive, got %+v (%v)", kept, err)
	}
}
