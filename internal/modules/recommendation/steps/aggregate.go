package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
)

type weightedSource struct {
	category string
	weight   float64
	run      func(ctx context.Context, limit int) ([]types.RecommendationResult, error)
}

// splitLimit divides the total limit across sources proportionally to their
// weights, rounding up. Over-fetch is intentional: post-merge deduplication
// must not leave the final list short.
func splitLimit(total int, weights []float64) []int {
	out := make([]int, len(weights))
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		// All-zero weights fall back to an even split.
		share := int(math.Ceil(float64(total) / float64(len(weights))))
		for i := range out {
			out[i] = share
		}
		return out
	}
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		share := w / sum
		out[i] = int(math.Ceil(float64(total) * share))
		if out[i] < 1 {
			out[i] = 1
		}
	}
	return out
}

// MixedAggregate fans out to all four extractors concurrently, rescales each
// result by its source weight, merges with deduplication, and truncates to
// the requested limit. When the same entry surfaces from two extractors the
// higher rescaled score wins.
func MixedAggregate(ctx context.Context, deps Deps, userID uuid.UUID, weights types.AlgorithmWeights, proficiency map[string]int, limit int) ([]types.RecommendationResult, error) {
	weights = weights.Clamped()
	params := deps.Params.normalized()

	sources := []weightedSource{
		{recommendation.CategoryBehavioral, weights.Behavioral, func(ctx context.Context, n int) ([]types.RecommendationResult, error) {
			return BehavioralExtract(ctx, deps, userID, n)
		}},
		{recommendation.CategorySemantic, weights.Semantic, func(ctx context.Context, n int) ([]types.RecommendationResult, error) {
			return SemanticExtract(ctx, deps, userID, n)
		}},
		{recommendation.CategoryCommunity, weights.Community, func(ctx context.Context, n int) ([]types.RecommendationResult, error) {
			return CommunityExtract(ctx, deps, userID, n)
		}},
		{recommendation.CategoryLinguistic, weights.Linguistic, func(ctx context.Context, n int) ([]types.RecommendationResult, error) {
			return LinguisticExtract(ctx, deps, userID, proficiency, n)
		}},
	}

	ws := make([]float64, len(sources))
	for i, s := range sources {
		ws[i] = s.weight
	}
	subLimits := splitLimit(limit, ws)

	outputs := make([][]types.RecommendationResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i := range sources {
		if subLimits[i] == 0 {
			continue
		}
		src := sources[i]
		n := subLimits[i]
		slot := i
		g.Go(func() error {
			extCtx, cancel := context.WithTimeout(gctx, params.ExtractorBudget())
			defer cancel()
			results, err := src.run(extCtx, n)
			if err != nil {
				// A failing signal degrades to empty rather than
				// aborting the whole aggregation.
				deps.Log.Warn("extractor failed, continuing without its signal",
					"extractor", src.category, "user_id", userID, "error", err)
				return nil
			}
			outputs[slot] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeWeighted(outputs, ws)
	merged = sortAndTruncate(merged, limit)

	for i := range merged {
		merged[i].Category = recommendation.CategoryMixed
		merged[i].Reasons = append(merged[i].Reasons,
			fmt.Sprintf("combined score: %d%%", int(math.Round(merged[i].Score*100))))
	}
	return merged, nil
}

// mergeWeighted rescales every result by its source weight and deduplicates
// by entry id, keeping the higher rescaled score.
func mergeWeighted(outputs [][]types.RecommendationResult, weights []float64) []types.RecommendationResult {
	best := map[uuid.UUID]int{}
	var merged []types.RecommendationResult
	for i, results := range outputs {
		w := weights[i]
		for _, r := range results {
			r.Score = recommendation.ClampScore(r.Score * w)
			if at, ok := best[r.EntryID]; ok {
				if r.Score > merged[at].Score {
					merged[at] = r
				}
				continue
			}
			best[r.EntryID] = len(merged)
			merged = append(merged, r)
		}
	}
	return merged
}
