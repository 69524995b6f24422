package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type ViewEventRepo interface {
	// ListRecentByUser returns the user's views since the given time,
	// most-recent-first, capped at limit.
	ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.ViewEvent, error)
}

type viewEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewEventRepo(db *gorm.DB, baseLog *logger.Logger) ViewEventRepo {
	return &viewEventRepo{db: db, log: baseLog.With("repo", "ViewEventRepo")}
}

func (r *viewEventRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *viewEventRepo) ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.ViewEvent, error) {
	if userID == uuid.Nil {
		return []*types.ViewEvent{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	var out []*types.ViewEvent
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND viewed_at >= ?", userID, since).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
