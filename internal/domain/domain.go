package domain

import (
	"github.com/sunudico/sunudico-backend/internal/domain/activity"
	"github.com/sunudico/sunudico-backend/internal/domain/dictionary"
	"github.com/sunudico/sunudico-backend/internal/domain/recommendation"
	"github.com/sunudico/sunudico-backend/internal/domain/user"
)

type User = user.User

type Entry = dictionary.Entry
type Language = dictionary.Language

type ViewEvent = activity.ViewEvent
type Favorite = activity.Favorite
type ActivityEvent = activity.Event

type RecommendationProfile = recommendation.Profile
type RecommendationResult = recommendation.Result
type CachedRecommendationSet = recommendation.CachedSet
type FeedbackEvent = recommendation.FeedbackEvent
type AlgorithmWeights = recommendation.AlgorithmWeights

const (
	EntryStatusPending  = dictionary.EntryStatusPending
	EntryStatusApproved = dictionary.EntryStatusApproved
	EntryStatusRejected = dictionary.EntryStatusRejected

	EventEntryCreated    = activity.EventEntryCreated
	EventEntryApproved   = activity.EventEntryApproved
	EventEntryFavorited  = activity.EventEntryFavorited
	EventEntryTranslated = activity.EventEntryTranslated
)
