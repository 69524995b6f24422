package recommendation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FeedbackLike          = "like"
	FeedbackDislike       = "dislike"
	FeedbackNotInterested = "not_interested"
	FeedbackView          = "view"
	FeedbackFavorite      = "favorite"
)

// FeedbackEvent is appended to a profile's history and never mutated.
type FeedbackEvent struct {
	EntryID   uuid.UUID `json:"entry_id"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AlgorithmWeights tunes how much each signal contributes in mixed mode.
// Weights are user-tunable; each is clamped to [0,1] but the sum is not
// normalized.
type AlgorithmWeights struct {
	Behavioral float64 `json:"behavioral"`
	Semantic   float64 `json:"semantic"`
	Community  float64 `json:"community"`
	Linguistic float64 `json:"linguistic"`
}

func DefaultWeights() AlgorithmWeights {
	return AlgorithmWeights{Behavioral: 0.4, Semantic: 0.3, Community: 0.2, Linguistic: 0.1}
}

func (w AlgorithmWeights) Clamped() AlgorithmWeights {
	return AlgorithmWeights{
		Behavioral: clamp01(w.Behavioral),
		Semantic:   clamp01(w.Semantic),
		Community:  clamp01(w.Community),
		Linguistic: clamp01(w.Linguistic),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type InteractionPatterns struct {
	PeakHours             []int    `json:"peak_hours,omitempty"`
	PreferredContentTypes []string `json:"preferred_content_types,omitempty"`
	AvgSessionLengthSec   float64  `json:"avg_session_length_sec,omitempty"`
}

// Profile is the per-user recommendation profile. It is created lazily on the
// first recommendation request and never hard-deleted by this subsystem.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`

	PreferredCategories datatypes.JSON `gorm:"type:jsonb;column:preferred_categories" json:"preferred_categories"`
	LanguageProficiency datatypes.JSON `gorm:"type:jsonb;column:language_proficiency" json:"language_proficiency"`
	InteractionPatterns datatypes.JSON `gorm:"type:jsonb;column:interaction_patterns" json:"interaction_patterns"`
	SemanticInterests   datatypes.JSON `gorm:"type:jsonb;column:semantic_interests" json:"semantic_interests"`
	FeedbackHistory     datatypes.JSON `gorm:"type:jsonb;column:feedback_history" json:"feedback_history"`
	AlgorithmWeights    datatypes.JSON `gorm:"type:jsonb;column:algorithm_weights" json:"algorithm_weights"`

	LastRecommendationAt *time.Time `gorm:"column:last_recommendation_at" json:"last_recommendation_at,omitempty"`

	TotalRecommendationsSeen      int `gorm:"not null;default:0;column:total_recommendations_seen" json:"total_recommendations_seen"`
	TotalRecommendationsClicked   int `gorm:"not null;default:0;column:total_recommendations_clicked" json:"total_recommendations_clicked"`
	TotalRecommendationsFavorited int `gorm:"not null;default:0;column:total_recommendations_favorited" json:"total_recommendations_favorited"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Profile) TableName() string { return "recommendation_profile" }

// Weights decodes the stored weights, falling back to the defaults when the
// column is empty or malformed.
func (p *Profile) Weights() AlgorithmWeights {
	if p == nil || len(p.AlgorithmWeights) == 0 {
		return DefaultWeights()
	}
	var w AlgorithmWeights
	if err := json.Unmarshal(p.AlgorithmWeights, &w); err != nil {
		return DefaultWeights()
	}
	w = w.Clamped()
	if w == (AlgorithmWeights{}) {
		return DefaultWeights()
	}
	return w
}

func (p *Profile) SetWeights(w AlgorithmWeights) {
	b, _ := json.Marshal(w.Clamped())
	p.AlgorithmWeights = datatypes.JSON(b)
}

// Proficiency returns the stored language->level map (levels 1-5).
func (p *Profile) Proficiency() map[string]int {
	out := map[string]int{}
	if p == nil || len(p.LanguageProficiency) == 0 {
		return out
	}
	_ = json.Unmarshal(p.LanguageProficiency, &out)
	return out
}

func (p *Profile) SetProficiency(m map[string]int) {
	b, _ := json.Marshal(m)
	p.LanguageProficiency = datatypes.JSON(b)
}

func (p *Profile) Feedback() []FeedbackEvent {
	if p == nil || len(p.FeedbackHistory) == 0 {
		return nil
	}
	var out []FeedbackEvent
	_ = json.Unmarshal(p.FeedbackHistory, &out)
	return out
}

// AppendFeedback appends one event to the history. History is append-only.
func (p *Profile) AppendFeedback(ev FeedbackEvent) {
	history := append(p.Feedback(), ev)
	b, _ := json.Marshal(history)
	p.FeedbackHistory = datatypes.JSON(b)
}

func (p *Profile) Categories() []string {
	if p == nil || len(p.PreferredCategories) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(p.PreferredCategories, &out)
	return out
}

func (p *Profile) Interests() []string {
	if p == nil || len(p.SemanticInterests) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(p.SemanticInterests, &out)
	return out
}
