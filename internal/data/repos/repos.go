package repos

import (
	"gorm.io/gorm"

	"github.com/sunudico/sunudico-backend/internal/data/repos/activity"
	"github.com/sunudico/sunudico-backend/internal/data/repos/dictionary"
	"github.com/sunudico/sunudico-backend/internal/data/repos/recommendation"
	"github.com/sunudico/sunudico-backend/internal/data/repos/user"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type EntryRepo = dictionary.EntryRepo
type LanguageRepo = dictionary.LanguageRepo
type CandidateFilter = dictionary.CandidateFilter

type ViewEventRepo = activity.ViewEventRepo
type FavoriteRepo = activity.FavoriteRepo
type ActivityEventRepo = activity.EventRepo
type EntryActivity = activity.EntryActivity

type RecommendationProfileRepo = recommendation.ProfileRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return dictionary.NewEntryRepo(db, baseLog)
}
func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return dictionary.NewLanguageRepo(db, baseLog)
}

func NewViewEventRepo(db *gorm.DB, baseLog *logger.Logger) ViewEventRepo {
	return activity.NewViewEventRepo(db, baseLog)
}
func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return activity.NewFavoriteRepo(db, baseLog)
}
func NewActivityEventRepo(db *gorm.DB, baseLog *logger.Logger) ActivityEventRepo {
	return activity.NewEventRepo(db, baseLog)
}

func NewRecommendationProfileRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationProfileRepo {
	return recommendation.NewProfileRepo(db, baseLog)
}
