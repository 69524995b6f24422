package activity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type FavoriteRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Favorite, error)
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *favoriteRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Favorite, error) {
	if userID == uuid.Nil {
		return []*types.Favorite{}, nil
	}
	var out []*types.Favorite
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
