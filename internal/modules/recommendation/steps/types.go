package steps

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sunudico/sunudico-backend/internal/data/repos"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

// Similarity optionally supplies a richer semantic-relatedness score between
// two entries. When absent the semantic extractor falls back to a fixed
// baseline.
type Similarity interface {
	Relatedness(ctx context.Context, source, candidate *types.Entry) (float64, bool)
}

type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users     repos.UserRepo
	Entries   repos.EntryRepo
	Languages repos.LanguageRepo
	Views     repos.ViewEventRepo
	Favorites repos.FavoriteRepo
	Activity  repos.ActivityEventRepo

	Similarity Similarity

	Params Params
}

// Params are the tunable knobs of the scoring pipeline. Zero values fall back
// to the defaults via normalized().
type Params struct {
	BehavioralWindowDays int     `yaml:"behavioral_window_days"`
	BehavioralViewCap    int     `yaml:"behavioral_view_cap"`
	SemanticSourceCount  int     `yaml:"semantic_source_count"`
	SemanticBaseline     float64 `yaml:"semantic_baseline"`
	TrendWindowDays      int     `yaml:"trend_window_days"`
	PopularityThreshold  int     `yaml:"popularity_threshold"`
	CoreTranslationCount int     `yaml:"core_translation_count"`
	ExtractorBudgetSec   int     `yaml:"extractor_budget_sec"`
	CacheTTLMinutes      int     `yaml:"cache_ttl_minutes"`
}

func DefaultParams() Params {
	return Params{
		BehavioralWindowDays: 30,
		BehavioralViewCap:    50,
		SemanticSourceCount:  5,
		SemanticBaseline:     0.5,
		TrendWindowDays:      7,
		PopularityThreshold:  3,
		CoreTranslationCount: 5,
		ExtractorBudgetSec:   3,
		CacheTTLMinutes:      60,
	}
}

func (p Params) normalized() Params {
	def := DefaultParams()
	if p.BehavioralWindowDays <= 0 {
		p.BehavioralWindowDays = def.BehavioralWindowDays
	}
	if p.BehavioralViewCap <= 0 {
		p.BehavioralViewCap = def.BehavioralViewCap
	}
	if p.SemanticSourceCount <= 0 {
		p.SemanticSourceCount = def.SemanticSourceCount
	}
	if p.SemanticBaseline <= 0 {
		p.SemanticBaseline = def.SemanticBaseline
	}
	if p.TrendWindowDays <= 0 {
		p.TrendWindowDays = def.TrendWindowDays
	}
	if p.PopularityThreshold <= 0 {
		p.PopularityThreshold = def.PopularityThreshold
	}
	if p.CoreTranslationCount <= 0 {
		p.CoreTranslationCount = def.CoreTranslationCount
	}
	if p.ExtractorBudgetSec <= 0 {
		p.ExtractorBudgetSec = def.ExtractorBudgetSec
	}
	if p.CacheTTLMinutes <= 0 {
		p.CacheTTLMinutes = def.CacheTTLMinutes
	}
	return p
}

func (p Params) ExtractorBudget() time.Duration {
	return time.Duration(p.normalized().ExtractorBudgetSec) * time.Second
}

func (p Params) CacheTTL() time.Duration {
	return time.Duration(p.normalized().CacheTTLMinutes) * time.Minute
}
