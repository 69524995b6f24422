package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

// EntryActivity is a per-entry aggregate over the activity log within a
// trailing window.
type EntryActivity struct {
	EntryID      string    `gorm:"column:entry_id"`
	Interactions int       `gorm:"column:interactions"`
	LastActivity time.Time `gorm:"column:last_activity"`
}

type EventRepo interface {
	// CountByEntrySince groups activity since the given time by target
	// entry, optionally restricted to a region, most-active-first.
	CountByEntrySince(dbc dbctx.Context, since time.Time, region string, limit int) ([]EntryActivity, error)

	// CountForEntry counts interactions with one entry since the given time.
	CountForEntry(dbc dbctx.Context, entryID uuid.UUID, since time.Time) (int, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "ActivityEventRepo")}
}

func (r *eventRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *eventRepo) CountByEntrySince(dbc dbctx.Context, since time.Time, region string, limit int) ([]EntryActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ActivityEvent{}).
		Select("entry_id, COUNT(*) AS interactions, MAX(created_at) AS last_activity").
		Where("created_at >= ?", since)
	if region != "" {
		q = q.Where("region = ?", region)
	}
	var out []EntryActivity
	err := q.Group("entry_id").
		Order("interactions DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) CountForEntry(dbc dbctx.Context, entryID uuid.UUID, since time.Time) (int, error) {
	if entryID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ActivityEvent{}).
		Where("entry_id = ? AND created_at >= ?", entryID, since).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
