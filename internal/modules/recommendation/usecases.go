package recommendation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunudico/sunudico-backend/internal/data/repos"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/modules/recommendation/steps"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users     repos.UserRepo
	Entries   repos.EntryRepo
	Languages repos.LanguageRepo
	Views     repos.ViewEventRepo
	Favorites repos.FavoriteRepo
	Activity  repos.ActivityEventRepo

	// Optional richer relatedness signal; baseline fallback when nil.
	Similarity steps.Similarity

	Params steps.Params
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) Params() steps.Params { return u.deps.Params }

func (u Usecases) stepDeps() steps.Deps {
	return steps.Deps{
		DB:         u.deps.DB,
		Log:        u.deps.Log,
		Users:      u.deps.Users,
		Entries:    u.deps.Entries,
		Languages:  u.deps.Languages,
		Views:      u.deps.Views,
		Favorites:  u.deps.Favorites,
		Activity:   u.deps.Activity,
		Similarity: u.deps.Similarity,
		Params:     u.deps.Params,
	}
}

func (u Usecases) Behavioral(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	return steps.BehavioralExtract(ctx, u.stepDeps(), userID, limit)
}

func (u Usecases) Semantic(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	return steps.SemanticExtract(ctx, u.stepDeps(), userID, limit)
}

func (u Usecases) Community(ctx context.Context, userID uuid.UUID, limit int) ([]types.RecommendationResult, error) {
	return steps.CommunityExtract(ctx, u.stepDeps(), userID, limit)
}

func (u Usecases) Linguistic(ctx context.Context, userID uuid.UUID, proficiency map[string]int, limit int) ([]types.RecommendationResult, error) {
	return steps.LinguisticExtract(ctx, u.stepDeps(), userID, proficiency, limit)
}

func (u Usecases) Mixed(ctx context.Context, userID uuid.UUID, weights types.AlgorithmWeights, proficiency map[string]int, limit int) ([]types.RecommendationResult, error) {
	return steps.MixedAggregate(ctx, u.stepDeps(), userID, weights, proficiency, limit)
}

func (u Usecases) Trending(ctx context.Context, region, period string, limit int) ([]types.RecommendationResult, error) {
	return steps.TrendingExtract(ctx, u.stepDeps(), region, period, limit)
}

func (u Usecases) ByLevel(ctx context.Context, language string, level, limit int) ([]types.RecommendationResult, error) {
	return steps.LevelExtract(ctx, u.stepDeps(), language, level, limit)
}

func (u Usecases) Explain(ctx context.Context, userID uuid.UUID, entry *types.Entry, weights types.AlgorithmWeights, proficiency map[string]int) (*steps.Explanation, error) {
	return steps.Explain(ctx, u.stepDeps(), userID, entry, weights, proficiency)
}
