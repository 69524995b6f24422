package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/data/repos"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
)

// SemanticExtract recommends entries related to what the user viewed most
// recently. Relatedness falls back to a fixed baseline unless a similarity
// collaborator is wired in.
func SemanticExtract(ctx context.Context, deps Deps, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	params := deps.Params.normalized()
	dbc := dbctx.Context{Ctx: ctx}

	since := time.Now().UTC().AddDate(0, 0, -params.BehavioralWindowDays)
	views, err := deps.Views.ListRecentByUser(dbc, userID, since, params.SemanticSourceCount)
	if err != nil {
		return nil, fmt.Errorf("semantic: list views: %w", err)
	}
	if len(views) == 0 {
		return []types.RecommendationResult{}, nil
	}

	sourceIDs := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		sourceIDs = append(sourceIDs, v.EntryID)
	}
	sources, err := deps.Entries.GetByIDs(dbc, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("semantic: load sources: %w", err)
	}
	byID := map[uuid.UUID]*types.Entry{}
	for _, s := range sources {
		byID[s.ID] = s
	}

	// First occurrence wins across source entries.
	taken := map[uuid.UUID]bool{}
	results := make([]types.RecommendationResult, 0, limit*2)

	for _, id := range sourceIDs {
		source := byID[id]
		if source == nil {
			continue
		}
		related, err := deps.Entries.FindCandidates(dbc, repos.CandidateFilter{
			Categories:    nonEmpty(source.CategoryID),
			Keywords:      entryKeywords(source),
			PartsOfSpeech: nonEmpty(source.PartOfSpeech),
			ExcludeIDs:    []uuid.UUID{source.ID},
			Limit:         limit,
		})
		if err != nil {
			return nil, fmt.Errorf("semantic: related to %s: %w", source.ID, err)
		}
		for _, cand := range related {
			if taken[cand.ID] {
				continue
			}
			taken[cand.ID] = true

			relatedness := params.SemanticBaseline
			if deps.Similarity != nil {
				if v, ok := deps.Similarity.Relatedness(ctx, source, cand); ok {
					relatedness = v
				}
			}
			score := recommendation.ClampScore(relatedness*0.8 + 0.2)

			results = append(results, types.RecommendationResult{
				EntryID:  cand.ID,
				Score:    score,
				Reasons:  []string{fmt.Sprintf("related to %q (%s)", source.Headword, relationshipKind(source, cand))},
				Category: recommendation.CategorySemantic,
				Metadata: map[string]interface{}{
					"related_to": source.Headword,
				},
			})
		}
	}

	return sortAndTruncate(results, limit), nil
}

// relationshipKind names the strongest link between a source entry and a
// related candidate.
func relationshipKind(source, cand *types.Entry) string {
	if source == nil || cand == nil {
		return "related"
	}
	if source.CategoryID != "" && source.CategoryID == cand.CategoryID {
		return "same category"
	}
	candKeywords := map[string]bool{}
	for _, kw := range entryKeywords(cand) {
		candKeywords[kw] = true
	}
	for _, kw := range entryKeywords(source) {
		if candKeywords[kw] {
			return fmt.Sprintf("shared keyword %q", kw)
		}
	}
	if source.PartOfSpeech != "" && source.PartOfSpeech == cand.PartOfSpeech {
		return "same part of speech"
	}
	return "related"
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
