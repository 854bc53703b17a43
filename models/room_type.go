package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType categories are unique (single|double|triple). NightlyRate
// is stored as decimal(10,2); money never goes through float64.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Category    string          `gorm:"column:category;uniqueIndex;type:varchar(20)" json:"category"`
	Capacity    uint            `gorm:"column:capacity" json:"capacity"`
	NightlyRate decimal.Decimal `gorm:"column:nightly_rate;type:decimal(10,2)" json:"nightly_rate"`

	CreatedAt time.Time `json:"-"`
}
