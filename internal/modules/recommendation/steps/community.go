package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	userrepo "github.com/sunudico/sunudico-backend/internal/data/repos/user"
)

const (
	communityBase        = 0.1
	interactionWeight    = 0.1
	interactionWeightCap = 0.6
	newEntryBonus        = 0.3
	newEntryWindowDays   = 7
)

// CommunityExtract surfaces entries the community is currently interacting
// with, restricted to languages the user knows.
func CommunityExtract(ctx context.Context, deps Deps, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	params := deps.Params.normalized()
	dbc := dbctx.Context{Ctx: ctx}

	u, err := deps.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("community: load user: %w", err)
	}
	known := map[string]bool{}
	for _, code := range userrepo.KnownLanguages(u) {
		known[code] = true
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -params.TrendWindowDays)
	activity, err := deps.Activity.CountByEntrySince(dbc, since, "", limit*4)
	if err != nil {
		return nil, fmt.Errorf("community: count activity: %w", err)
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
		return nil, fmt.Errorf("community: load entries: %w", err)
	}

	results := make([]types.RecommendationResult, 0, len(entries))
	for _, e := range entries {
		if e.Status != types.EntryStatusApproved {
			continue
		}
		if len(known) > 0 && !known[e.LanguageCode] {
			continue
		}
		interactions := counts[e.ID]
		isNew := now.Sub(e.CreatedAt) <= newEntryWindowDays*24*time.Hour
		score := scoreCommunity(interactions, isNew)

		reasons := []string{fmt.Sprintf("%d community interactions in the last %d days", interactions, params.TrendWindowDays)}
		if isNew {
			reasons = append(reasons, "newly added entry")
		}
		results = append(results, types.RecommendationResult{
			EntryID:  e.ID,
			Score:    score,
			Reasons:  reasons,
			Category: recommendation.CategoryCommunity,
			Metadata: map[string]interface{}{
				"interactions":      interactions,
				"trend_window_days": params.TrendWindowDays,
				"is_new":            isNew,
			},
		})
	}

	return sortAndTruncate(results, limit), nil
}

// scoreCommunity blends interaction volume with entry freshness.
func scoreCommunity(interactions int, isNew bool) float64 {
	score := communityBase
	interactionScore := interactionWeight * float64(interactions)
	if interactionScore > interactionWeightCap {
		interactionScore = interactionWeightCap
	}
	score += interactionScore
	if isNew {
		score += newEntryBonus
	}
	return recommendation.ClampScore(score)
}
