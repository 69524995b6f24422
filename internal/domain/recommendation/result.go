package recommendation

import "github.com/google/uuid"

const (
	CategoryBehavioral = "behavioral"
	CategorySemantic   = "semantic"
	CategoryCommunity  = "community"
	CategoryLinguistic = "linguistic"
	CategoryMixed      = "mixed"
)

const (
	TypePersonal   = "personal"
	TypeTrending   = "trending"
	TypeLinguistic = "linguistic"
	TypeSemantic   = "semantic"
	TypeMixed      = "mixed"
)

// Types lists every cacheable recommendation type. Invalidation deletes one
// cache key per type.
func Types() []string {
	return []string{TypePersonal, TypeTrending, TypeLinguistic, TypeSemantic, TypeMixed}
}

func ValidType(t string) bool {
	switch t {
	case TypePersonal, TypeTrending, TypeLinguistic, TypeSemantic, TypeMixed:
		return true
	default:
		return false
	}
}

// Result is one scored candidate as produced by an extractor. Scores are
// clamped into [0,1] before emission.
type Result struct {
	EntryID  uuid.UUID              `json:"entry_id"`
	Score    float64                `json:"score"`
	Reasons  []string               `json:"reasons"`
	Category string                 `json:"category"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ClampScore bounds a raw score into the [0,1] emission domain.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
