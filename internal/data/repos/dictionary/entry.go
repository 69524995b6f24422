package dictionary

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

// CandidateFilter narrows the approved-entry pool an extractor draws from.
// Category, language and keyword conditions are OR-ed together; exclusions
// always apply.
type CandidateFilter struct {
	Categories    []string
	Languages     []string
	Keywords      []string
	PartsOfSpeech []string
	ExcludeIDs    []uuid.UUID
	ExcludeAuthor uuid.UUID
	Limit         int
}

type EntryRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Entry, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Entry, error)
	FindCandidates(dbc dbctx.Context, f CandidateFilter) ([]*types.Entry, error)
	ListApprovedByLanguage(dbc dbctx.Context, languageCode string, limit int) ([]*types.Entry, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (r *entryRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *entryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Entry, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Entry
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *entryRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Entry, error) {
	if len(ids) == 0 {
		return []*types.Entry{}, nil
	}
	var out []*types.Entry
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

const maxKeywordConditions = 10

func (r *entryRepo) FindCandidates(dbc dbctx.Context, f CandidateFilter) ([]*types.Entry, error) {
	if len(f.Categories) == 0 && len(f.Languages) == 0 && len(f.Keywords) == 0 && len(f.PartsOfSpeech) == 0 {
		return []*types.Entry{}, nil
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	t := r.dbx(dbc)
	q := t.WithContext(dbc.Ctx).Model(&types.Entry{}).
		Where("status = ?", types.EntryStatusApproved)

	if f.ExcludeAuthor != uuid.Nil {
		q = q.Where("created_by <> ?", f.ExcludeAuthor)
	}
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}

	match := t.Session(&gorm.Session{NewDB: true})
	matched := false
	if len(f.Categories) > 0 {
		match = match.Where("category_id IN ?", f.Categories)
		matched = true
	}
	if len(f.Languages) > 0 {
		match = match.Or("language_code IN ?", f.Languages)
		matched = true
	}
	if len(f.PartsOfSpeech) > 0 {
		match = match.Or("part_of_speech IN ?", f.PartsOfSpeech)
		matched = true
	}
	keywords := f.Keywords
	if len(keywords) > maxKeywordConditions {
		keywords = keywords[:maxKeywordConditions]
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		match = match.Or(datatypes.JSONArrayQuery("keywords").Contains(kw))
		matched = true
	}
	if !matched {
		return []*types.Entry{}, nil
	}
	q = q.Where(match)

	var out []*types.Entry
	if err := q.Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entryRepo) ListApprovedByLanguage(dbc dbctx.Context, languageCode string, limit int) ([]*types.Entry, error) {
	if languageCode == "" {
		return []*types.Entry{}, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.Entry
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("status = ? AND language_code = ?", types.EntryStatusApproved, languageCode).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
