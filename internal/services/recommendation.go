package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscache "github.com/sunudico/sunudico-backend/internal/clients/redis"
	"github.com/sunudico/sunudico-backend/internal/data/repos"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	rec "github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	recmod "github.com/sunudico/sunudico-backend/internal/modules/recommendation"
	"github.com/sunudico/sunudico-backend/internal/modules/recommendation/steps"
	"github.com/sunudico/sunudico-backend/internal/pkg/apierr"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

const (
	defaultPersonalLimit = 5
	maxPersonalLimit     = 20
	defaultTrendingLimit = 5
	maxTrendingLimit     = 10
	defaultLevelLimit    = 5
	maxLevelLimit        = 15
)

type PersonalOptions struct {
	Limit      int
	Type       string
	Languages  []string
	Categories []string
	Refresh    bool
}

type LanguageInfo struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	Flag string `json:"flag,omitempty"`
}

// RecommendationItem is one candidate joined back to its display data.
type RecommendationItem struct {
	EntryID       uuid.UUID              `json:"entry_id"`
	Headword      string                 `json:"headword"`
	Definition    string                 `json:"definition,omitempty"`
	Pronunciation string                 `json:"pronunciation,omitempty"`
	AudioURL      string                 `json:"audio_url,omitempty"`
	Language      LanguageInfo           `json:"language"`
	CategoryID    string                 `json:"category_id,omitempty"`
	Score         float64                `json:"score"`
	Reasons       []string               `json:"reasons"`
	Category      string                 `json:"category"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type RecommendationResponse struct {
	Items            []RecommendationItem   `json:"items"`
	Type             string                 `json:"type"`
	FromCache        bool                   `json:"from_cache"`
	GeneratedAt      time.Time              `json:"generated_at"`
	ValidUntil       time.Time              `json:"valid_until,omitempty"`
	GenerationTimeMs int64                  `json:"generation_time_ms"`
	TotalCandidates  int                    `json:"total_candidates"`
	AvgScore         float64                `json:"avg_score"`
	Algorithm        types.AlgorithmWeights `json:"algorithm"`
}

type FeedbackInput struct {
	EntryID uuid.UUID
	Type    string
	Reason  string
}

type FeedbackAck struct {
	Recorded bool   `json:"recorded"`
	Impact   string `json:"impact"`
}

type RecommendationService interface {
	GetPersonalRecommendations(ctx context.Context, userID uuid.UUID, opts PersonalOptions) (*RecommendationResponse, error)
	GetTrendingRecommendations(ctx context.Context, region, period string, limit int) (*RecommendationResponse, error)
	GetLinguisticRecommendations(ctx context.Context, language string, level, limit int) (*RecommendationResponse, error)
	RecordFeedback(ctx context.Context, userID uuid.UUID, in FeedbackInput) (*FeedbackAck, error)
	ExplainRecommendation(ctx context.Context, userID, entryID uuid.UUID) (*steps.Explanation, error)
}

type recommendationService struct {
	db       *gorm.DB
	log      *logger.Logger
	usecases recmod.Usecases

	users     repos.UserRepo
	entries   repos.EntryRepo
	languages repos.LanguageRepo
	profiles  repos.RecommendationProfileRepo

	cache rediscache.RecommendationCache
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	usecases recmod.Usecases,
	users repos.UserRepo,
	entries repos.EntryRepo,
	languages repos.LanguageRepo,
	profiles repos.RecommendationProfileRepo,
	cache rediscache.RecommendationCache,
) RecommendationService {
	return &recommendationService{
		db:        db,
		log:       baseLog.With("service", "RecommendationService"),
		usecases:  usecases,
		users:     users,
		entries:   entries,
		languages: languages,
		profiles:  profiles,
		cache:     cache,
	}
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (s *recommendationService) GetPersonalRecommendations(ctx context.Context, userID uuid.UUID, opts PersonalOptions) (*RecommendationResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}

	limit := clampLimit(opts.Limit, defaultPersonalLimit, maxPersonalLimit)
	recType := opts.Type
	if recType == "" {
		recType = rec.TypeMixed
	}
	if !rec.ValidType(recType) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_recommendation_type", fmt.Errorf("unknown recommendation type %q", recType))
	}

	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}

	if !opts.Refresh {
		cached, err := s.cache.Get(ctx, userID, recType)
		if err != nil {
			s.log.Warn("cache read failed, regenerating", "user_id", userID, "type", recType, "error", err)
		}
		if cached != nil {
			items, err := s.format(dbc, cached.Results, toSet(opts.Languages), toSet(opts.Categories))
			if err != nil {
				return nil, apierr.Internal("format_failed", err)
			}
			// The cached set may have been generated for a larger limit.
			if len(items) > limit {
				items = items[:limit]
			}
			profile, _ := s.profiles.GetByUserID(dbc, userID)
			return &RecommendationResponse{
				Items:            items,
				Type:             recType,
				FromCache:        true,
				GeneratedAt:      cached.GeneratedAt,
				ValidUntil:       cached.ValidUntil,
				GenerationTimeMs: cached.GenerationTimeMs,
				TotalCandidates:  cached.TotalCandidates,
				AvgScore:         cached.AvgScore,
				Algorithm:        profile.Weights(),
			}, nil
		}
	}

	profile, err := s.loadOrCreateProfile(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("profile_load_failed", err)
	}

	started := time.Now()
	results, err := s.generate(ctx, userID, profile, recType, limit)
	if err != nil {
		return nil, apierr.Internal("generation_failed", err)
	}
	elapsed := time.Since(started)

	s.log.Debug("generated recommendations",
		"user_id", userID,
		"type", recType,
		"candidates", len(results),
		"duration_ms", elapsed.Milliseconds())

	now := time.Now().UTC()
	set := &types.CachedRecommendationSet{
		UserID:           userID,
		Type:             recType,
		Results:          results,
		GeneratedAt:      now,
		ValidUntil:       now.Add(s.usecases.Params().CacheTTL()),
		GenerationTimeMs: elapsed.Milliseconds(),
		TotalCandidates:  len(results),
		AvgScore:         rec.AvgScoreOf(results),
	}
	if err := s.cache.Put(ctx, set); err != nil {
		// A cold cache only costs recomputation on the next request.
		s.log.Warn("cache write failed", "user_id", userID, "type", recType, "error", err)
	}

	ts := now
	profile.LastRecommendationAt = &ts
	if err := s.profiles.Upsert(dbc, profile); err != nil {
		s.log.Warn("profile timestamp update failed", "user_id", userID, "error", err)
	}

	items, err := s.format(dbc, results, toSet(opts.Languages), toSet(opts.Categories))
	if err != nil {
		return nil, apierr.Internal("format_failed", err)
	}
	return &RecommendationResponse{
		Items:            items,
		Type:             recType,
		FromCache:        false,
		GeneratedAt:      set.GeneratedAt,
		ValidUntil:       set.ValidUntil,
		GenerationTimeMs: set.GenerationTimeMs,
		TotalCandidates:  set.TotalCandidates,
		AvgScore:         set.AvgScore,
		Algorithm:        profile.Weights(),
	}, nil
}

func (s *recommendationService) generate(ctx context.Context, userID uuid.UUID, profile *types.RecommendationProfile, recType string, limit int) ([]types.RecommendationResult, error) {
	switch recType {
	case rec.TypePersonal:
		return s.usecases.Behavioral(ctx, userID, limit)
	case rec.TypeSemantic:
		return s.usecases.Semantic(ctx, userID, limit)
	case rec.TypeTrending:
		return s.usecases.Community(ctx, userID, limit)
	case rec.TypeLinguistic:
		return s.usecases.Linguistic(ctx, userID, profile.Proficiency(), limit)
	default:
		return s.usecases.Mixed(ctx, userID, profile.Weights(), profile.Proficiency(), limit)
	}
}

// loadOrCreateProfile lazily initializes the per-user profile on first use.
func (s *recommendationService) loadOrCreateProfile(dbc dbctx.Context, userID uuid.UUID) (*types.RecommendationProfile, error) {
	profile, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	profile = &types.RecommendationProfile{
		ID:     uuid.New(),
		UserID: userID,
	}
	profile.SetWeights(rec.DefaultWeights())
	if err := s.profiles.Upsert(dbc, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *recommendationService) GetTrendingRecommendations(ctx context.Context, region, period string, limit int) (*RecommendationResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}

	limit = clampLimit(limit, defaultTrendingLimit, maxTrendingLimit)
	switch period {
	case steps.TrendPeriod24h, steps.TrendPeriod7d, steps.TrendPeriod30d:
	default:
		period = steps.TrendPeriod7d
	}

	started := time.Now()
	results, err := s.usecases.Trending(ctx, region, period, limit)
	if err != nil {
		return nil, apierr.Internal("trending_failed", err)
	}
	items, err := s.format(dbc, results, nil, nil)
	if err != nil {
		return nil, apierr.Internal("format_failed", err)
	}
	now := time.Now().UTC()
	return &RecommendationResponse{
		Items:            items,
		Type:             rec.TypeTrending,
		FromCache:        false,
		GeneratedAt:      now,
		GenerationTimeMs: time.Since(started).Milliseconds(),
		TotalCandidates:  len(results),
		AvgScore:         rec.AvgScoreOf(results),
	}, nil
}

func (s *recommendationService) GetLinguisticRecommendations(ctx context.Context, language string, level, limit int) (*RecommendationResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}

	if language == "" {
		return nil, apierr.New(http.StatusBadRequest, "language_required", fmt.Errorf("language is required"))
	}
	lang, err := s.languages.GetByCode(dbc, language)
	if err != nil {
		return nil, apierr.Internal("language_lookup_failed", err)
	}
	if lang == nil {
		return nil, apierr.NotFound("language_not_found", fmt.Errorf("language %q not found", language))
	}
	limit = clampLimit(limit, defaultLevelLimit, maxLevelLimit)
	if level <= 0 {
		level = 3
	}
	if level > 5 {
		level = 5
	}

	started := time.Now()
	results, err := s.usecases.ByLevel(ctx, language, level, limit)
	if err != nil {
		return nil, apierr.Internal("linguistic_failed", err)
	}
	items, err := s.format(dbc, results, nil, nil)
	if err != nil {
		return nil, apierr.Internal("format_failed", err)
	}
	now := time.Now().UTC()
	return &RecommendationResponse{
		Items:            items,
		Type:             rec.TypeLinguistic,
		FromCache:        false,
		GeneratedAt:      now,
		GenerationTimeMs: time.Since(started).Milliseconds(),
		TotalCandidates:  len(results),
		AvgScore:         rec.AvgScoreOf(results),
	}, nil
}

var feedbackImpacts = map[string]string{
	rec.FeedbackLike:          "similar entries will be reinforced",
	rec.FeedbackDislike:       "entries of this kind will be shown less",
	rec.FeedbackNotInterested: "this category will be avoided",
	rec.FeedbackFavorite:      "this theme will be strongly reinforced",
	rec.FeedbackView:          "your interest profile has been enriched",
}

func (s *recommendationService) RecordFeedback(ctx context.Context, userID uuid.UUID, in FeedbackInput) (*FeedbackAck, error) {
	dbc := dbctx.Context{Ctx: ctx}

	impact, ok := feedbackImpacts[in.Type]
	if !ok {
		return nil, apierr.New(http.StatusBadRequest, "invalid_feedback_type", fmt.Errorf("unknown feedback type %q", in.Type))
	}
	if in.EntryID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "entry_required", fmt.Errorf("entry_id is required"))
	}

	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}

	profile, err := s.loadOrCreateProfile(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("profile_load_failed", err)
	}

	profile.AppendFeedback(types.FeedbackEvent{
		EntryID:   in.EntryID,
		Type:      in.Type,
		Reason:    in.Reason,
		CreatedAt: time.Now().UTC(),
	})
	switch in.Type {
	case rec.FeedbackView:
		profile.TotalRecommendationsSeen++
		profile.TotalRecommendationsClicked++
	case rec.FeedbackLike:
		profile.TotalRecommendationsClicked++
	case rec.FeedbackFavorite:
		profile.TotalRecommendationsClicked++
		profile.TotalRecommendationsFavorited++
	}

	// Persistence failures surface to the caller; feedback must not be
	// silently dropped.
	if err := s.profiles.Upsert(dbc, profile); err != nil {
		s.log.Error("feedback persistence failed", "user_id", userID, "error", err)
		return nil, apierr.Internal("feedback_persist_failed", err)
	}

	// Invalidation blocks: the next request must regenerate from scratch.
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Error("cache invalidation failed", "user_id", userID, "error", err)
		return nil, apierr.Internal("cache_invalidate_failed", err)
	}

	return &FeedbackAck{Recorded: true, Impact: impact}, nil
}

func (s *recommendationService) ExplainRecommendation(ctx context.Context, userID, entryID uuid.UUID) (*steps.Explanation, error) {
	dbc := dbctx.Context{Ctx: ctx}

	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}
	entry, err := s.entries.GetByID(dbc, entryID)
	if err != nil {
		return nil, apierr.Internal("entry_lookup_failed", err)
	}
	if entry == nil {
		return nil, apierr.NotFound("entry_not_found", fmt.Errorf("entry %s not found", entryID))
	}

	profile, err := s.loadOrCreateProfile(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("profile_load_failed", err)
	}

	explanation, err := s.usecases.Explain(ctx, userID, entry, profile.Weights(), profile.Proficiency())
	if err != nil {
		return nil, apierr.Internal("explain_failed", err)
	}
	return explanation, nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	out := map[string]bool{}
	for _, v := range values {
		if v != "" {
			out[v] = true
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// format joins scored candidates back to display data, applying the optional
// language/category request filters. Results whose entry has since
// disappeared are dropped.
func (s *recommendationService) format(dbc dbctx.Context, results []types.RecommendationResult, languages, categories map[string]bool) ([]RecommendationItem, error) {
	if len(results) == 0 {
		return []RecommendationItem{}, nil
	}
	ids := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.EntryID)
	}
	entries, err := s.entries.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("format: load entries: %w", err)
	}
	byID := map[uuid.UUID]*types.Entry{}
	codes := map[string]bool{}
	for _, e := range entries {
		byID[e.ID] = e
		codes[e.LanguageCode] = true
	}

	codeList := make([]string, 0, len(codes))
	for c := range codes {
		codeList = append(codeList, c)
	}
	langs, err := s.languages.GetByCodes(dbc, codeList)
	if err != nil {
		return nil, fmt.Errorf("format: load languages: %w", err)
	}

	items := make([]RecommendationItem, 0, len(results))
	for _, r := range results {
		e := byID[r.EntryID]
		if e == nil {
			continue
		}
		if languages != nil && !languages[e.LanguageCode] {
			continue
		}
		if categories != nil && !categories[e.CategoryID] {
			continue
		}
		info := LanguageInfo{Code: e.LanguageCode}
		if l := langs[e.LanguageCode]; l != nil {
			info.Name = l.Name
			info.Flag = l.Flag
		}
		items = append(items, RecommendationItem{
			EntryID:       e.ID,
			Headword:      e.Headword,
			Definition:    e.Definition,
			Pronunciation: e.Pronunciation,
			AudioURL:      e.AudioURL,
			Language:      info,
			CategoryID:    e.CategoryID,
			Score:         r.Score,
			Reasons:       r.Reasons,
			Category:      r.Category,
			Metadata:      r.Metadata,
		})
	}
	return items, nil
}
