package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Reservation statuses. Pending and paid block a room's dates;
// cancelled does not.
const (
	ReservationPending   = "pending"
	ReservationPaid      = "paid"
	ReservationCancelled = "cancelled"
)

// ActiveStatuses are the statuses that count toward availability
// conflicts.
var ActiveStatuses = []string{ReservationPending, ReservationPaid}

// Reservation holds a half-open date range [StartDate, EndDate):
// the end date is the checkout day and is not occupied. Two
// reservations sharing an endpoint do not overlap.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"column:user_id;index" json:"user_id"`
	RoomID uint `gorm:"column:room_id;index:idx_room_dates,priority:1" json:"room_id"`

	StartDate time.Time `gorm:"column:start_date;type:date;index:idx_room_dates,priority:2" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;type:date;index:idx_room_dates,priority:3" json:"end_date"`

	TotalCost decimal.Decimal `gorm:"column:total_cost;type:decimal(10,2)" json:"total_cost"`
	Status    string          `gorm:"column:status;type:varchar(20);default:pending;index:idx_room_dates,priority:4" json:"status"`

	// Relative path of the generated receipt/report, set lazily on
	// first generation.
	ReportPath *string `gorm:"column:report_path;type:varchar(500)" json:"report_path,omitempty"`

	// Provider correlation ids, populated as the payment flow
	// progresses. PaymentMeta keeps the raw capture payload for audit.
	PaymentOrderID   *string        `gorm:"column:payment_order_id;type:varchar(80);index" json:"payment_order_id,omitempty"`
	PaymentCaptureID *string        `gorm:"column:payment_capture_id;type:varchar(80);index" json:"payment_capture_id,omitempty"`
	PaymentMeta      datatypes.JSON `gorm:"column:payment_meta" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}

// IsActive reports whether the reservation blocks its room's dates.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationPending || r.Status == ReservationPaid
}

// BlockedInterval is the privacy-preserving availability view exposed
// for calendar rendering: no owner, cost or payment fields.
type BlockedInterval struct {
	RoomID    uint      `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}
