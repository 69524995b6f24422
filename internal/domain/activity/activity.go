package activity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventEntryCreated    = "entry_created"
	EventEntryApproved   = "entry_approved"
	EventEntryFavorited  = "entry_favorited"
	EventEntryTranslated = "entry_translated"
)

// ViewEvent is one entry view in a user's history.
type ViewEvent struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	EntryID  uuid.UUID `gorm:"type:uuid;not null;index;column:entry_id" json:"entry_id"`
	ViewedAt time.Time `gorm:"not null;index;column:viewed_at" json:"viewed_at"`
}

func (ViewEvent) TableName() string { return "view_event" }

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_favorite_user_entry,unique;column:user_id" json:"user_id"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;index:idx_favorite_user_entry,unique;column:entry_id" json:"entry_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }

// Event is one row in the community activity log. Trending and community
// signals aggregate over it.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;index;column:entry_id" json:"entry_id"`
	Type      string    `gorm:"not null;index;column:type" json:"type"`
	Region    string    `gorm:"index;column:region" json:"region"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at" json:"created_at"`
}

func (Event) TableName() string { return "activity_event" }
