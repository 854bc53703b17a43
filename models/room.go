package models

import "time"

// Room statuses. Informational only: booking conflicts are decided by
// reservation date ranges, never by this field.
const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
	RoomStatusOccupied    = "occupied"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Number string `gorm:"column:number;uniqueIndex;type:varchar(20)" json:"number"`
	Floor  uint   `gorm:"column:floor" json:"floor"`
	Status string `gorm:"column:status;type:varchar(20);default:available" json:"status"`

	RoomTypeID uint     `gorm:"column:room_type_id;index" json:"room_type_id"`
	RoomType   RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`

	CreatedAt time.Time `json:"-"`
}
