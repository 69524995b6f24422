package dictionary

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EntryStatusPending  = "pending"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

type Entry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Headword     string    `gorm:"not null;index;column:headword" json:"headword"`
	LanguageCode string    `gorm:"not null;index;column:language_code" json:"language_code"`
	CategoryID   string    `gorm:"index;column:category_id" json:"category_id"`
	PartOfSpeech string    `gorm:"column:part_of_speech" json:"part_of_speech"`

	Definition    string `gorm:"type:text;column:definition" json:"definition"`
	Pronunciation string `gorm:"column:pronunciation" json:"pronunciation"`
	AudioURL      string `gorm:"column:audio_url" json:"audio_url"`

	// Extracted free-text tags used for overlap matching.
	Keywords datatypes.JSON `gorm:"type:jsonb;column:keywords" json:"keywords"`

	SenseCount       int  `gorm:"not null;default:0;column:sense_count" json:"sense_count"`
	TranslationCount int  `gorm:"not null;default:0;column:translation_count" json:"translation_count"`
	HasEtymology     bool `gorm:"not null;default:false;column:has_etymology" json:"has_etymology"`

	Status    string    `gorm:"not null;default:'pending';index;column:status" json:"status"`
	CreatedBy uuid.UUID `gorm:"type:uuid;index;column:created_by" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Entry) TableName() string { return "dictionary_entry" }
