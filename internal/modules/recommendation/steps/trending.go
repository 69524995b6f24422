package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
)

const (
	TrendPeriod24h = "24h"
	TrendPeriod7d  = "7d"
	TrendPeriod30d = "30d"
)

func TrendWindow(period string) time.Duration {
	switch period {
	case TrendPeriod24h:
		return 24 * time.Hour
	case TrendPeriod30d:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// TrendingExtract ranks entries by community interaction count over the
// chosen window, independent of any user profile. No activity in the window
// yields an empty list, not an error.
func TrendingExtract(ctx context.Context, deps Deps, region, period string, limit int) ([]types.RecommendationResult, error) {
	dbc := dbctx.Context{Ctx: ctx}

	now := time.Now().UTC()
	window := TrendWindow(period)
	since := now.Add(-window)

	activity, err := deps.Activity.CountByEntrySince(dbc, since, region, limit*4)
	if err != nil {
		return nil, fmt.Errorf("trending: count activity: %w", err)
	}
	if len(activity) == 0 {
		return []types.RecommendationResult{}, nil
	}

	ids := make([]uuid.UUID, 0, len(activity))
	counts := map[uuid.UUID]int{}
	for _, a := range activity {
		id, err := uuid.Parse(a.EntryID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		counts[id] = a.Interactions
	}
	entries, err := deps.Entries.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("trending: load entries: %w", err)
	}

	results := make([]types.RecommendationResult, 0, len(entries))
	for _, e := range entries {
		if e.Status != types.EntryStatusApproved {
			continue
		}
		interactions := counts[e.ID]
		isNew := now.Sub(e.CreatedAt) <= newEntryWindowDays*24*time.Hour
		reasons := []string{fmt.Sprintf("%d interactions in the last %s", interactions, period)}
		if region != "" {
			reasons = append(reasons, fmt.Sprintf("trending in %s", region))
		}
		results = append(results, types.RecommendationResult{
			EntryID:  e.ID,
			Score:    scoreCommunity(interactions, isNew),
			Reasons:  reasons,
			Category: recommendation.CategoryCommunity,
			Metadata: map[string]interface{}{
				"interactions": interactions,
				"period":       period,
				"region":       region,
			},
		})
	}

	return sortAndTruncate(results, limit), nil
}

// LevelExtract filters approved entries of one language by a complexity rule
// keyed on the requested level, independent of any user profile.
func LevelExtract(ctx context.Context, deps Deps, language string, level, limit int) ([]types.RecommendationResult, error) {
	dbc := dbctx.Context{Ctx: ctx}

	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}

	entries, err := deps.Entries.ListApprovedByLanguage(dbc, language, limit*4)
	if err != nil {
		return nil, fmt.Errorf("level: list %s entries: %w", language, err)
	}

	results := make([]types.RecommendationResult, 0, limit)
	for _, e := range entries {
		if !levelRuleFits(e, level) {
			continue
		}
		score := recommendation.ClampScore(0.8 + float64(level)*0.04)
		results = append(results, types.RecommendationResult{
			EntryID: e.ID,
			Score:   score,
			Reasons: []string{
				fmt.Sprintf("suited to level %d learners of %s", level, language),
				fmt.Sprintf("difficulty: %s", tierForLevel(level)),
			},
			Category: recommendation.CategoryLinguistic,
			Metadata: map[string]interface{}{
				"language":   language,
				"level":      level,
				"difficulty": tierForLevel(level),
			},
		})
	}

	return sortAndTruncate(results, limit), nil
}

// levelRuleFits: 1-2 want simple entries, 3 is balanced, 4-5 want complex or
// etymology-bearing ones.
func levelRuleFits(e *types.Entry, level int) bool {
	if e == nil {
		return false
	}
	switch {
	case level <= 2:
		return e.SenseCount <= 1
	case level == 3:
		return true
	default:
		return e.SenseCount > 1 || e.HasEtymology
	}
}
