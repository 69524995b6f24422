package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/data/repos"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
)

const (
	behavioralBase      = 0.1
	categoryMatchBonus  = 0.3
	languageMatchBonus  = 0.2
	keywordOverlapBonus = 0.1
	keywordOverlapCap   = 0.3
	popularityBonus     = 0.1
)

// interestSet is what the user has shown interest in across recent views and
// favorites.
type interestSet struct {
	categories map[string]bool
	languages  map[string]bool
	keywords   map[string]bool
}

func newInterestSet() interestSet {
	return interestSet{
		categories: map[string]bool{},
		languages:  map[string]bool{},
		keywords:   map[string]bool{},
	}
}

func (s interestSet) add(e *types.Entry) {
	if e == nil {
		return
	}
	if e.CategoryID != "" {
		s.categories[e.CategoryID] = true
	}
	if e.LanguageCode != "" {
		s.languages[e.LanguageCode] = true
	}
	for _, kw := range entryKeywords(e) {
		s.keywords[kw] = true
	}
}

func (s interestSet) empty() bool {
	return len(s.categories) == 0 && len(s.languages) == 0 && len(s.keywords) == 0
}

func (s interestSet) keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func entryKeywords(e *types.Entry) []string {
	if e == nil || len(e.Keywords) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(e.Keywords, &out)
	return out
}

// BehavioralExtract scores candidates against the user's recent viewing and
// favoriting behavior.
func BehavioralExtract(ctx context.Context, deps Deps, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	params := deps.Params.normalized()
	dbc := dbctx.Context{Ctx: ctx}

	since := time.Now().UTC().AddDate(0, 0, -params.BehavioralWindowDays)
	views, err := deps.Views.ListRecentByUser(dbc, userID, since, params.BehavioralViewCap)
	if err != nil {
		return nil, fmt.Errorf("behavioral: list views: %w", err)
	}
	favorites, err := deps.Favorites.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("behavioral: list favorites: %w", err)
	}

	seedIDs := make([]uuid.UUID, 0, len(views)+len(favorites))
	seen := map[uuid.UUID]bool{}
	for _, v := range views {
		if !seen[v.EntryID] {
			seen[v.EntryID] = true
			seedIDs = append(seedIDs, v.EntryID)
		}
	}
	for _, f := range favorites {
		if !seen[f.EntryID] {
			seen[f.EntryID] = true
			seedIDs = append(seedIDs, f.EntryID)
		}
	}
	if len(seedIDs) == 0 {
		return []types.RecommendationResult{}, nil
	}

	seedEntries, err := deps.Entries.GetByIDs(dbc, seedIDs)
	if err != nil {
		return nil, fmt.Errorf("behavioral: load seed entries: %w", err)
	}

	interests := newInterestSet()
	for _, e := range seedEntries {
		interests.add(e)
	}
	if interests.empty() {
		return []types.RecommendationResult{}, nil
	}

	candidates, err := deps.Entries.FindCandidates(dbc, repos.CandidateFilter{
		Categories:    interests.keys(interests.categories),
		Languages:     interests.keys(interests.languages),
		Keywords:      interests.keys(interests.keywords),
		ExcludeAuthor: userID,
		Limit:         limit * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("behavioral: find candidates: %w", err)
	}

	results := make([]types.RecommendationResult, 0, len(candidates))
	for _, e := range candidates {
		score, reasons := scoreBehavioral(e, interests, params)
		results = append(results, types.RecommendationResult{
			EntryID:  e.ID,
			Score:    score,
			Reasons:  reasons,
			Category: recommendation.CategoryBehavioral,
			Metadata: map[string]interface{}{
				"translation_count": e.TranslationCount,
			},
		})
	}
	return sortAndTruncate(results, limit), nil
}

// scoreBehavioral applies the interest bonuses to one candidate. Pure so the
// formula is unit-testable.
func scoreBehavioral(e *types.Entry, interests interestSet, params Params) (float64, []string) {
	score := behavioralBase
	var reasons []string

	if e.CategoryID != "" && interests.categories[e.CategoryID] {
		score += categoryMatchBonus
		reasons = append(reasons, "matches a category you explore often")
	}
	if e.LanguageCode != "" && interests.languages[e.LanguageCode] {
		score += languageMatchBonus
		reasons = append(reasons, "in a language you use")
	}

	var overlapping []string
	for _, kw := range entryKeywords(e) {
		if interests.keywords[kw] {
			overlapping = append(overlapping, kw)
		}
	}
	if len(overlapping) > 0 {
		bonus := keywordOverlapBonus * float64(len(overlapping))
		if bonus > keywordOverlapCap {
			bonus = keywordOverlapCap
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("shares keywords with your history: %s", joinMax(overlapping, 3)))
	}

	if e.TranslationCount > params.PopularityThreshold {
		score += popularityBonus
		reasons = append(reasons, "popular with the community")
	}

	return recommendation.ClampScore(score), reasons
}

func joinMax(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}

// sortAndTruncate orders by score descending with entry id as a stable
// tiebreak, then keeps the top limit results.
func sortAndTruncate(results []types.RecommendationResult, limit int) []types.RecommendationResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].EntryID.String() < results[j].EntryID.String()
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
