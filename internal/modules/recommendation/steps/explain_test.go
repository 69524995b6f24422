package steps

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
)

func TestExplain_AllFourFactorsPresent(t *testing.T) {
	u := learner("fr", "wo")
	author := uuid.New()

	seed := approvedEntry(author, "wo", "food", "cuisine")
	target := approvedEntry(author, "wo", "food", "cuisine")
	target.SenseCount = 1

	deps := Deps{
		Log:   testLogger(t),
		Users: &fakeUsers{u: u},
		Entries: &fakeEntries{
			byID: map[uuid.UUID]*types.Entry{seed.ID: seed, target.ID: target},
		},
		Views:     &fakeViews{views: []*types.ViewEvent{{UserID: u.ID, EntryID: seed.ID}}},
		Favorites: &fakeFavorites{},
		Activity:  &fakeActivity{perEntry: map[uuid.UUID]int{target.ID: 3}},
		Params:    DefaultParams(),
	}

	exp, err := Explain(context.Background(), deps, u.ID, target, recommendation.DefaultWeights(), map[string]int{"wo": 1})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if exp.EntryID != target.ID || exp.Headword != target.Headword {
		t.Fatalf("unexpected identity: %+v", exp)
	}
	for _, cat := range []string{
		recommendation.CategoryBehavioral,
		recommendation.CategorySemantic,
		recommendation.CategoryCommunity,
		recommendation.CategoryLinguistic,
	} {
		if _, ok := exp.Factors[cat]; !ok {
			t.Fatalf("missing factor %q", cat)
		}
	}

	// Behavioral: base + category + language + keyword overlap.
	behavioral := exp.Factors[recommendation.CategoryBehavioral]
	if diff := behavioral.Score - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("behavioral = %v, want 0.7", behavioral.Score)
	}
	// Semantic: baseline 0.5*0.8+0.2 against the shared-category seed.
	semantic := exp.Factors[recommendation.CategorySemantic]
	if diff := semantic.Score - 0.6; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("semantic = %v, want 0.6", semantic.Score)
	}
	// Linguistic: beginner match on a single-sense entry.
	linguistic := exp.Factors[recommendation.CategoryLinguistic]
	if linguistic.Score <= 0 {
		t.Fatalf("expected positive linguistic factor, got %v", linguistic.Score)
	}

	weights := recommendation.DefaultWeights()
	want := recommendation.ClampScore(
		behavioral.Score*weights.Behavioral +
			semantic.Score*weights.Semantic +
			exp.Factors[recommendation.CategoryCommunity].Score*weights.Community +
			linguistic.Score*weights.Linguistic)
	if diff := exp.Combined - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("combined = %v, want %v", exp.Combined, want)
	}
}

func TestExplain_SemanticFactorIgnoresFavoriteOnlySeeds(t *testing.T) {
	u := learner("fr", "wo")
	author := uuid.New()

	// Related only through a favorite; the lone viewed entry shares nothing.
	favorited := approvedEntry(author, "wo", "food", "cuisine")
	viewed := approvedEntry(author, "en", "greetings")
	target := approvedEntry(author, "wo", "food", "cuisine")

	deps := Deps{
		Log:   testLogger(t),
		Users: &fakeUsers{u: u},
		Entries: &fakeEntries{
			byID: map[uuid.UUID]*types.Entry{favorited.ID: favorited, viewed.ID: viewed, target.ID: target},
		},
		Views:     &fakeViews{views: []*types.ViewEvent{{UserID: u.ID, EntryID: viewed.ID}}},
		Favorites: &fakeFavorites{favorites: []*types.Favorite{{UserID: u.ID, EntryID: favorited.ID}}},
		Activity:  &fakeActivity{},
		Params:    DefaultParams(),
	}

	exp, err := Explain(context.Background(), deps, u.ID, target, recommendation.DefaultWeights(), nil)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got := exp.Factors[recommendation.CategorySemantic].Score; got != 0 {
		t.Fatalf("semantic factor should only read recent views, got %v", got)
	}
	// The favorite still feeds the behavioral interest set.
	if got := exp.Factors[recommendation.CategoryBehavioral].Score; got <= 0.1 {
		t.Fatalf("behavioral factor should credit the favorited category, got %v", got)
	}
}

func TestExplain_LanguageNotLearnedZeroesLinguisticFactor(t *testing.T) {
	u := learner("fr", "wo")
	author := uuid.New()
	target := approvedEntry(author, "en", "food")

	deps := Deps{
		Log:       testLogger(t),
		Users:     &fakeUsers{u: u},
		Entries:   &fakeEntries{byID: map[uuid.UUID]*types.Entry{}},
		Views:     &fakeViews{},
		Favorites: &fakeFavorites{},
		Activity:  &fakeActivity{},
		Params:    DefaultParams(),
	}

	exp, err := Explain(context.Background(), deps, u.ID, target, recommendation.DefaultWeights(), nil)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if exp.Factors[recommendation.CategoryLinguistic].Score != 0 {
		t.Fatalf("linguistic factor should be zero for a language the user is not learning")
	}
}
