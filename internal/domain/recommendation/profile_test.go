package recommendation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestProfileWeights_FallsBackToDefaults(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.Weights() != DefaultWeights() {
		t.Fatalf("nil profile should use default weights")
	}

	empty := &Profile{}
	if empty.Weights() != DefaultWeights() {
		t.Fatalf("empty column should use default weights")
	}

	malformed := &Profile{AlgorithmWeights: datatypes.JSON(`{broken`)}
	if malformed.Weights() != DefaultWeights() {
		t.Fatalf("malformed column should use default weights")
	}

	allZero := &Profile{AlgorithmWeights: datatypes.JSON(`{"behavioral":0,"semantic":0,"community":0,"linguistic":0}`)}
	if allZero.Weights() != DefaultWeights() {
		t.Fatalf("all-zero weights should use default weights")
	}

	allNegative := &Profile{AlgorithmWeights: datatypes.JSON(`{"behavioral":-1,"semantic":-0.5,"community":-2,"linguistic":-0.1}`)}
	if allNegative.Weights() != DefaultWeights() {
		t.Fatalf("weights that clamp to zero should use default weights")
	}
}

func TestProfileWeights_RoundTripClamps(t *testing.T) {
	p := &Profile{}
	p.SetWeights(AlgorithmWeights{Behavioral: 2.5, Semantic: -1, Community: 0.5, Linguistic: 1})

	got := p.Weights()
	want := AlgorithmWeights{Behavioral: 1, Semantic: 0, Community: 0.5, Linguistic: 1}
	if got != want {
		t.Fatalf("weights = %+v, want %+v", got, want)
	}
}

func TestAppendFeedback_HistoryGrows(t *testing.T) {
	p := &Profile{}
	if got := p.Feedback(); got != nil {
		t.Fatalf("fresh profile should have no history, got %#v", got)
	}

	first := FeedbackEvent{EntryID: uuid.New(), Type: FeedbackLike, CreatedAt: time.Now().UTC()}
	second := FeedbackEvent{EntryID: uuid.New(), Type: FeedbackNotInterested, Reason: "too advanced", CreatedAt: time.Now().UTC()}
	p.AppendFeedback(first)
	p.AppendFeedback(second)

	history := p.Feedback()
	if len(history) != 2 {
		t.Fatalf("expected 2 events, got %d", len(history))
	}
	if history[0].EntryID != first.EntryID || history[1].Type != FeedbackNotInterested {
		t.Fatalf("history out of order: %#v", history)
	}
	if history[1].Reason != "too advanced" {
		t.Fatalf("reason lost: %#v", history[1])
	}
}

func TestProficiencyRoundTrip(t *testing.T) {
	p := &Profile{}
	if got := p.Proficiency(); len(got) != 0 {
		t.Fatalf("expected empty map, got %#v", got)
	}
	p.SetProficiency(map[string]int{"wo": 3, "fr": 5})
	got := p.Proficiency()
	if got["wo"] != 3 || got["fr"] != 5 {
		t.Fatalf("proficiency round trip failed: %#v", got)
	}
}

func TestCachedSetFresh(t *testing.T) {
	now := time.Now().UTC()
	set := &CachedSet{ValidUntil: now.Add(time.Minute)}
	if !set.Fresh(now) {
		t.Fatalf("set valid for another minute should be fresh")
	}
	if set.Fresh(now.Add(2 * time.Minute)) {
		t.Fatalf("expired set should not be fresh")
	}
	var nilSet *CachedSet
	if nilSet.Fresh(now) {
		t.Fatalf("nil set is never fresh")
	}
}

func TestClampScore(t *testing.T) {
	if ClampScore(1.7) != 1.0 || ClampScore(-0.2) != 0.0 || ClampScore(0.42) != 0.42 {
		t.Fatalf("clamp broken")
	}
}
