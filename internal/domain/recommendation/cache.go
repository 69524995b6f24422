package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// CachedSet is one generated recommendation set as it lives in the cache,
// keyed by (user, type). It is immutable once written; regeneration replaces
// it wholesale.
type CachedSet struct {
	UserID           uuid.UUID `json:"user_id"`
	Type             string    `json:"type"`
	Results          []Result  `json:"results"`
	GeneratedAt      time.Time `json:"generated_at"`
	ValidUntil       time.Time `json:"valid_until"`
	GenerationTimeMs int64     `json:"generation_time_ms"`
	TotalCandidates  int       `json:"total_candidates"`
	AvgScore         float64   `json:"avg_score"`
}

// Fresh reports whether the set is still inside its validity window.
func (c *CachedSet) Fresh(now time.Time) bool {
	return c != nil && c.ValidUntil.After(now)
}

// AvgScoreOf computes the mean score of a result set, 0 when empty.
func AvgScoreOf(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}
