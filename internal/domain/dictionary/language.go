package dictionary

import "time"

// Language is the registry row backing cosmetic enrichment (name + flag) of
// recommendation payloads.
type Language struct {
	Code      string    `gorm:"primaryKey;column:code" json:"code"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Flag      string    `gorm:"column:flag" json:"flag"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Language) TableName() string { return "language" }
