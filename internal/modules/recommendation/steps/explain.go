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

type Factor struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

type Explanation struct {
	EntryID  uuid.UUID              `json:"entry_id"`
	Headword string                 `json:"headword"`
	Factors  map[string]Factor      `json:"factors"`
	Weights  types.AlgorithmWeights `json:"weights"`
	Combined float64                `json:"combined"`
}

// Explain recomputes all four factor scores for one specific candidate so a
// user can see why it was (or would be) recommended.
func Explain(ctx context.Context, deps Deps, userID uuid.UUID, entry *types.Entry, weights types.AlgorithmWeights, proficiency map[string]int) (*Explanation, error) {
	params := deps.Params.normalized()
	dbc := dbctx.Context{Ctx: ctx}
	now := time.Now().UTC()

	u, err := deps.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("explain: load user: %w", err)
	}

	// Behavioral: score the entry against the user's interest set.
	since := now.AddDate(0, 0, -params.BehavioralWindowDays)
	views, err := deps.Views.ListRecentByUser(dbc, userID, since, params.BehavioralViewCap)
	if err != nil {
		return nil, fmt.Errorf("explain: list views: %w", err)
	}
	favorites, err := deps.Favorites.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("explain: list favorites: %w", err)
	}
	seedIDs := make([]uuid.UUID, 0, len(views)+len(favorites))
	for _, v := range views {
		seedIDs = append(seedIDs, v.EntryID)
	}
	for _, f := range favorites {
		seedIDs = append(seedIDs, f.EntryID)
	}
	seeds, err := deps.Entries.GetByIDs(dbc, seedIDs)
	if err != nil {
		return nil, fmt.Errorf("explain: load seeds: %w", err)
	}
	interests := newInterestSet()
	for _, s := range seeds {
		interests.add(s)
	}
	behavioralScore, behavioralReasons := scoreBehavioral(entry, interests, params)

	// Semantic: best relatedness over the same source set the semantic
	// extractor reads, the most recent views only.
	seedByID := map[uuid.UUID]*types.Entry{}
	for _, s := range seeds {
		seedByID[s.ID] = s
	}
	sourceViews := views
	if len(sourceViews) > params.SemanticSourceCount {
		sourceViews = sourceViews[:params.SemanticSourceCount]
	}
	semantic := Factor{}
	for _, view := range sourceViews {
		s := seedByID[view.EntryID]
		if s == nil || s.ID == entry.ID {
			continue
		}
		kind := relationshipKind(s, entry)
		if kind == "related" {
			continue
		}
		relatedness := params.SemanticBaseline
		if deps.Similarity != nil {
			if v, ok := deps.Similarity.Relatedness(ctx, s, entry); ok {
				relatedness = v
			}
		}
		score := recommendation.ClampScore(relatedness*0.8 + 0.2)
		if score > semantic.Score {
			semantic = Factor{
				Score:   score,
				Reasons: []string{fmt.Sprintf("related to %q (%s)", s.Headword, kind)},
			}
		}
	}

	// Community: interactions with this entry in the trend window.
	trendSince := now.AddDate(0, 0, -params.TrendWindowDays)
	interactions, err := deps.Activity.CountForEntry(dbc, entry.ID, trendSince)
	if err != nil {
		return nil, fmt.Errorf("explain: count interactions: %w", err)
	}
	isNew := now.Sub(entry.CreatedAt) <= newEntryWindowDays*24*time.Hour
	community := Factor{Score: scoreCommunity(interactions, isNew)}
	community.Reasons = []string{fmt.Sprintf("%d interactions in the last %d days", interactions, params.TrendWindowDays)}
	if isNew {
		community.Reasons = append(community.Reasons, "newly added entry")
	}

	// Linguistic: complexity fit, only when the entry's language is one the
	// user is learning.
	linguistic := Factor{}
	for _, lang := range userrepo.LearningLanguages(u) {
		if lang != entry.LanguageCode {
			continue
		}
		level := proficiency[lang]
		if level < 1 || level > 5 {
			level = 1
		}
		if !complexityFits(entry, level) {
			linguistic.Reasons = []string{fmt.Sprintf("complexity does not match your %s level", tierForLevel(level))}
			break
		}
		score, reasons, _ := scoreLinguistic(entry, lang, level, params)
		linguistic = Factor{Score: score, Reasons: reasons}
		break
	}

	weights = weights.Clamped()
	combined := recommendation.ClampScore(
		behavioralScore*weights.Behavioral +
			semantic.Score*weights.Semantic +
			community.Score*weights.Community +
			linguistic.Score*weights.Linguistic)

	return &Explanation{
		EntryID:  entry.ID,
		Headword: entry.Headword,
		Factors: map[string]Factor{
			recommendation.CategoryBehavioral: {Score: behavioralScore, Reasons: behavioralReasons},
			recommendation.CategorySemantic:   semantic,
			recommendation.CategoryCommunity:  community,
			recommendation.CategoryLinguistic: linguistic,
		},
		Weights:  weights,
		Combined: combined,
	}, nil
}
