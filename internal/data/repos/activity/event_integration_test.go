package activity

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/data/repos/testutil"
	types "github.com/sunudico/sunudico-backend/internal/domain"
)

func TestCountByEntrySince_GroupsAndOrders(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewEventRepo(testutil.DB(t), testutil.Logger(t))

	author := uuid.New()
	hot := testutil.SeedEntry(t, dbc, author, "ceebu jën", "wo", "food")
	warm := testutil.SeedEntry(t, dbc, author, "yassa", "wo", "food")
	stale := testutil.SeedEntry(t, dbc, author, "mafe", "wo", "food")

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		testutil.SeedActivity(t, dbc, uuid.New(), hot.ID, types.EventEntryFavorited, "SN", now.Add(-time.Hour))
	}
	testutil.SeedActivity(t, dbc, uuid.New(), warm.ID, types.EventEntryCreated, "SN", now.Add(-time.Hour))
	testutil.SeedActivity(t, dbc, uuid.New(), stale.ID, types.EventEntryCreated, "SN", now.AddDate(0, 0, -10))

	got, err := repo.CountByEntrySince(dbc, now.AddDate(0, 0, -7), "", 10)
	if err != nil {
		t.Fatalf("CountByEntrySince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active entries, got %d", len(got))
	}
	if got[0].EntryID != hot.ID.String() || got[0].Interactions != 3 {
		t.Fatalf("most active entry should sort first: %+v", got)
	}
	if got[1].EntryID != warm.ID.String() || got[1].Interactions != 1 {
		t.Fatalf("unexpected second row: %+v", got)
	}
}

func TestCountByEntrySince_RegionFilter(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewEventRepo(testutil.DB(t), testutil.Logger(t))

	author := uuid.New()
	entry := testutil.SeedEntry(t, dbc, author, "teranga", "wo", "culture")

	now := time.Now().UTC()
	testutil.SeedActivity(t, dbc, uuid.New(), entry.ID, types.EventEntryApproved, "SN", now.Add(-time.Hour))
	testutil.SeedActivity(t, dbc, uuid.New(), entry.ID, types.EventEntryApproved, "FR", now.Add(-time.Hour))

	got, err := repo.CountByEntrySince(dbc, now.AddDate(0, 0, -1), "SN", 10)
	if err != nil {
		t.Fatalf("CountByEntrySince: %v", err)
	}
	if len(got) != 1 || got[0].Interactions != 1 {
		t.Fatalf("region filter should keep only SN activity: %+v", got)
	}
}

func TestCountForEntry(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewEventRepo(testutil.DB(t), testutil.Logger(t))

	author := uuid.New()
	entry := testutil.SeedEntry(t, dbc, author, "ndox", "wo", "nature")

	now := time.Now().UTC()
	testutil.SeedActivity(t, dbc, uuid.New(), entry.ID, types.EventEntryFavorited, "", now.Add(-time.Hour))
	testutil.SeedActivity(t, dbc, uuid.New(), entry.ID, types.EventEntryTranslated, "", now.AddDate(0, 0, -30))

	n, err := repo.CountForEntry(dbc, entry.ID, now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("CountForEntry: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1 inside the window", n)
	}

	zero, err := repo.CountForEntry(dbc, uuid.Nil, now)
	if err != nil || zero != 0 {
		t.Fatalf("nil entry id should count zero, got %d (%v)", zero, err)
	}
}

func TestListRecentByUser_OrderAndWindow(t *testing.T) {
	dbc := testutil.Tx(t)
	repo := NewViewEventRepo(testutil.DB(t), testutil.Logger(t))

	author := uuid.New()
	userID := uuid.New()
	older := testutil.SeedEntry(t, dbc, author, "jàng", "wo", "education")
	newer := testutil.SeedEntry(t, dbc, author, "bind", "wo", "education")
	ancient := testutil.SeedEntry(t, dbc, author, "xam", "wo", "education")

	now := time.Now().UTC()
	testutil.SeedView(t, dbc, userID, older.ID, now.Add(-2*time.Hour))
	testutil.SeedView(t, dbc, userID, newer.ID, now.Add(-time.Hour))
	testutil.SeedView(t, dbc, userID, ancient.ID, now.AddDate(0, 0, -60))

	got, err := repo.ListRecentByUser(dbc, userID, now.AddDate(0, 0, -30), 10)
	if err != nil {
		t.Fatalf("ListRecentByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 views inside the window, got %d", len(got))
	}
	if got[0].EntryID != newer.ID {
		t.Fatalf("most recent view should sort first: %+v", got)
	}
}
