package recommendation

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/data/repos/testutil"
	types "github.com/sunudico/sunudico-backend/internal/domain"
	rec "github.com/sunudico/sunudico-backend/internal/domain/recommendation"
)

func TestProfileUpsert_CreateThenUpdate(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewProfileRepo(testutil.DB(t), testutil.Logger(t))

	u := testutil.SeedUser(t, dbc, "fr", "wo")

	missing, err := repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected no profile yet, got %+v", missing)
	}

	row := &types.RecommendationProfile{ID: uuid.New(), UserID: u.ID}
	row.SetWeights(rec.DefaultWeights())
	row.SetProficiency(map[string]int{"wo": 2})
	if err := repo.Upsert(dbc, row); err != nil {
		t.Fatalf("create upsert: %v", err)
	}

	loaded, err := repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if loaded == nil || loaded.Weights() != rec.DefaultWeights() {
		t.Fatalf("unexpected loaded profile: %+v", loaded)
	}
	if loaded.Proficiency()["wo"] != 2 {
		t.Fatalf("proficiency lost: %#v", loaded.Proficiency())
	}

	// Second upsert for the same user must update, not duplicate.
	loaded.AppendFeedback(types.FeedbackEvent{EntryID: uuid.New(), Type: rec.FeedbackLike, CreatedAt: time.Now().UTC()})
	loaded.TotalRecommendationsClicked = 1
	if err := repo.Upsert(dbc, loaded); err != nil {
		t.Fatalf("update upsert: %v", err)
	}

	var n int64
	if err := dbc.Tx.Model(&types.RecommendationProfile{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single profile row, got %d", n)
	}

	again, err := repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if again.TotalRecommendationsClicked != 1 || len(again.Feedback()) != 1 {
		t.Fatalf("update lost data: %+v", again)
	}
}

func TestProfileUpsert_NilRowsIgnored(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewProfileRepo(testutil.DB(t), testutil.Logger(t))

	if err := repo.Upsert(dbc, nil); err != nil {
		t.Fatalf("nil row should be a no-op, got %v", err)
	}
	if err := repo.Upsert(dbc, &types.RecommendationProfile{}); err != nil {
		t.Fatalf("nil user id should be a no-op, got %v", err)
	}
}
