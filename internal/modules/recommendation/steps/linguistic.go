package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	userrepo "github.com/sunudico/sunudico-backend/internal/data/repos/user"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
)

const (
	linguisticBase = 0.2
	coreEntryBonus = 0.3

	minTranslationsForBeginner = 2
)

// Difficulty tiers shown to users; the UI is French-first.
const (
	TierBeginner     = "débutant"
	TierIntermediate = "intermédiaire"
	TierAdvanced     = "avancé"
)

func tierForLevel(level int) string {
	switch {
	case level <= 2:
		return TierBeginner
	case level == 3:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

func tierBonus(level int) float64 {
	switch {
	case level <= 2:
		return 0.5
	case level == 3:
		return 0.4
	default:
		return 0.3
	}
}

// complexityFits reports whether an entry suits the given proficiency level.
// Low levels favor single-sense or well-translated entries; higher levels
// favor polysemous or keyword-rich ones.
func complexityFits(e *types.Entry, level int) bool {
	if e == nil {
		return false
	}
	if level <= 2 {
		return e.SenseCount == 1 || e.TranslationCount >= minTranslationsForBeginner
	}
	return e.SenseCount > 1 || len(entryKeywords(e)) > 0
}

// LinguisticExtract matches entry complexity to the user's proficiency in
// each language they are learning. No learning languages means an empty
// result, not an error.
func LinguisticExtract(ctx context.Context, deps Deps, userID uuid.UUID, proficiency map[string]int, limit int) ([]types.RecommendationResult, error) {
	params := deps.Params.normalized()
	dbc := dbctx.Context{Ctx: ctx}

	u, err := deps.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("linguistic: load user: %w", err)
	}
	learning := userrepo.LearningLanguages(u)
	if len(learning) == 0 {
		return []types.RecommendationResult{}, nil
	}

	results := make([]types.RecommendationResult, 0, limit*len(learning))
	for _, lang := range learning {
		level := proficiency[lang]
		if level < 1 || level > 5 {
			level = 1
		}
		entries, err := deps.Entries.ListApprovedByLanguage(dbc, lang, limit*4)
		if err != nil {
			return nil, fmt.Errorf("linguistic: list %s entries: %w", lang, err)
		}
		for _, e := range entries {
			if !complexityFits(e, level) {
				continue
			}
			score, reasons, meta := scoreLinguistic(e, lang, level, params)
			results = append(results, types.RecommendationResult{
				EntryID:  e.ID,
				Score:    score,
				Reasons:  reasons,
				Category: recommendation.CategoryLinguistic,
				Metadata: meta,
			})
		}
	}

	return sortAndTruncate(results, limit), nil
}

func scoreLinguistic(e *types.Entry, lang string, level int, params Params) (float64, []string, map[string]interface{}) {
	tier := tierForLevel(level)
	score := linguisticBase + tierBonus(level)

	core := e.TranslationCount > params.CoreTranslationCount
	label := "enriching"
	if core {
		score += coreEntryBonus
		label = "core vocabulary"
	}

	reasons := []string{
		fmt.Sprintf("fits your %s level in %s", tier, lang),
		fmt.Sprintf("%s for learners", label),
	}
	meta := map[string]interface{}{
		"language":   lang,
		"difficulty": tier,
		"core":       core,
	}
	return recommendation.ClampScore(score), reasons, meta
}
