package dictionary

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type LanguageRepo interface {
	GetByCode(dbc dbctx.Context, code string) (*types.Language, error)
	GetByCodes(dbc dbctx.Context, codes []string) (map[string]*types.Language, error)
}

type languageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return &languageRepo{db: db, log: baseLog.With("repo", "LanguageRepo")}
}

func (r *languageRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *languageRepo) GetByCode(dbc dbctx.Context, code string) (*types.Language, error) {
	if code == "" {
		return nil, nil
	}
	var out types.Language
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("code = ?", code).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *languageRepo) GetByCodes(dbc dbctx.Context, codes []string) (map[string]*types.Language, error) {
	out := map[string]*types.Language{}
	if len(codes) == 0 {
		return out, nil
	}
	var rows []*types.Language
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("code IN ?", codes).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Code] = row
	}
	return out, nil
}
