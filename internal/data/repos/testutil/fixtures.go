package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
)

func SeedUser(tb testing.TB, dbc dbctx.Context, native string, learning ...string) *types.User {
	tb.Helper()
	raw, _ := json.Marshal(learning)
	id := uuid.New()
	u := &types.User{
		ID:                id,
		Email:             id.String() + "@test.local",
		DisplayName:       "test user",
		NativeLanguage:    native,
		LearningLanguages: datatypes.JSON(raw),
	}
	if err := dbc.Tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedEntry creates an approved entry; mutate and Save for other states.
func SeedEntry(tb testing.TB, dbc dbctx.Context, author uuid.UUID, headword, language, category string, keywords ...string) *types.Entry {
	tb.Helper()
	raw, _ := json.Marshal(keywords)
	e := &types.Entry{
		ID:           uuid.New(),
		Headword:     headword,
		LanguageCode: language,
		CategoryID:   category,
		Keywords:     datatypes.JSON(raw),
		Status:       types.EntryStatusApproved,
		CreatedBy:    author,
		CreatedAt:    time.Now().UTC(),
	}
	if err := dbc.Tx.Create(e).Error; err != nil {
		tb.Fatalf("seed entry %q: %v", headword, err)
	}
	return e
}

func SeedView(tb testing.TB, dbc dbctx.Context, userID, entryID uuid.UUID, at time.Time) *types.ViewEvent {
	tb.Helper()
	v := &types.ViewEvent{ID: uuid.New(), UserID: userID, EntryID: entryID, ViewedAt: at}
	if err := dbc.Tx.Create(v).Error; err != nil {
		tb.Fatalf("seed view: %v", err)
	}
	return v
}

func SeedFavorite(tb testing.TB, dbc dbctx.Context, userID, entryID uuid.UUID) *types.Favorite {
	tb.Helper()
	f := &types.Favorite{ID: uuid.New(), UserID: userID, EntryID: entryID}
	if err := dbc.Tx.Create(f).Error; err != nil {
		tb.Fatalf("seed favorite: %v", err)
	}
	return f
}

func SeedActivity(tb testing.TB, dbc dbctx.Context, userID, entryID uuid.UUID, eventType, region string, at time.Time) *types.ActivityEvent {
	tb.Helper()
	ev := &types.ActivityEvent{
		ID:        uuid.New(),
		UserID:    userID,
		EntryID:   entryID,
		Type:      eventType,
		Region:    region,
		CreatedAt: at,
	}
	if err := dbc.Tx.Create(ev).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return ev
}
