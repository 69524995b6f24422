package user

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type UserRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.User
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LearningLanguages decodes the user's learning-language codes.
func LearningLanguages(u *types.User) []string {
	if u == nil || len(u.LearningLanguages) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(u.LearningLanguages, &out)
	return out
}

// KnownLanguages returns native + learning codes, native first, deduplicated.
func KnownLanguages(u *types.User) []string {
	if u == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	if u.NativeLanguage != "" {
		seen[u.NativeLanguage] = true
		out = append(out, u.NativeLanguage)
	}
	for _, code := range LearningLanguages(u) {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
