package services

import (
	"errors"
	"fmt"
	"time"

	"ventura-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService owns the reservation lifecycle: creation, admin
// mutation and the no-double-booking invariant. All mutations run
// inside a transaction that locks the target room row, so a
// concurrent check-then-insert on the same room cannot interleave.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

// AdminUpdate is a partial update; nil fields are left unchanged.
type AdminUpdate struct {
	UserID    *uint
	RoomID    *uint
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

// DateOnly truncates a timestamp to its calendar day in UTC.
// Reservation ranges are whole days; times of day never participate
// in overlap checks.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nightsBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

// validateDates enforces start >= today and end > start.
func validateDates(start, end time.Time) error {
	today := DateOnly(time.Now())
	if start.Before(today) {
		return fmt.Errorf("%w: start date is in the past", ErrInvalidDateRange)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidDateRange)
	}
	return nil
}

// lockRoom fetches the room under SELECT ... FOR UPDATE, serializing
// concurrent availability checks for that room. SQLite has no row
// locks; its single-writer transactions already serialize writers.
func lockRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room models.Room
	if err := q.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return &room, nil
}

// hasOverlap reports whether any active reservation on the room
// overlaps [start, end). Half-open semantics: [s1,e1) and [s2,e2)
// overlap iff s1 < e2 && e1 > s2, so back-to-back stays sharing an
// endpoint do not conflict. excludeID, when non-zero, skips that
// reservation (re-validating its own updated dates).
func hasOverlap(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", roomID, models.ActiveStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("overlap query failed: %w", err)
	}
	return count > 0, nil
}

// calculateTotal derives nightly_rate x nights for the room's type.
func calculateTotal(tx *gorm.DB, room *models.Room, start, end time.Time) (decimal.Decimal, error) {
	nights := nightsBetween(start, end)
	if nights <= 0 {
		return decimal.Zero, fmt.Errorf("%w: zero nights", ErrInvalidDateRange)
	}

	var roomType models.RoomType
	if err := tx.First(&roomType, room.RoomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: room type %d", ErrNotFound, room.RoomTypeID)
		}
		return decimal.Zero, fmt.Errorf("failed to load room type: %w", err)
	}

	return roomType.NightlyRate.Mul(decimal.NewFromInt(int64(nights))).Round(2), nil
}

// Price exposes the pricing calculator on its own (quote endpoint and
// tests); it never writes.
func (s *ReservationService) Price(roomID uint, start, end time.Time) (decimal.Decimal, error) {
	start, end = DateOnly(start), DateOnly(end)
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return decimal.Zero, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return calculateTotal(s.DB, &room, start, end)
}

// Create validates dates, checks availability and inserts a pending
// reservation. The room lock keeps check+insert atomic with respect
// to concurrent creates on the same room.
func (s *ReservationService) Create(userID, roomID uint, start, end time.Time) (*models.Reservation, error) {
	start, end = DateOnly(start), DateOnly(end)
	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	var res models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}

		conflict, err := hasOverlap(tx, roomID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrRoomUnavailable
		}

		total, err := calculateTotal(tx, room, start, end)
		if err != nil {
			return err
		}

		res = models.Reservation{
			UserID:    userID,
			RoomID:    roomID,
			StartDate: start,
			EndDate:   end,
			TotalCost: total,
			Status:    models.ReservationPending,
		}
		if err := tx.Create(&res).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateAdmin applies a partial update. When dates or room change,
// date sanity is re-validated and, if the resulting status is still
// active, availability re-checked excluding the reservation itself;
// the total is recomputed from the effective room's rate. A
// status-only change (e.g. force-cancel) does none of that.
func (s *ReservationService) UpdateAdmin(reservationID uint, patch AdminUpdate) (*models.Reservation, error) {
	var res models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}

		newUserID := res.UserID
		if patch.UserID != nil {
			newUserID = *patch.UserID
		}
		newRoomID := res.RoomID
		if patch.RoomID != nil {
			newRoomID = *patch.RoomID
		}
		newStart := res.StartDate
		if patch.StartDate != nil {
			newStart = DateOnly(*patch.StartDate)
		}
		newEnd := res.EndDate
		if patch.EndDate != nil {
			newEnd = DateOnly(*patch.EndDate)
		}
		newStatus := res.Status
		if patch.Status != nil {
			newStatus = *patch.Status
		}

		rangeChanged := patch.StartDate != nil || patch.EndDate != nil || patch.RoomID != nil
		if rangeChanged {
			if err := validateDates(newStart, newEnd); err != nil {
				return err
			}

			room, err := lockRoom(tx, newRoomID)
			if err != nil {
				return err
			}

			if newStatus == models.ReservationPending || newStatus == models.ReservationPaid {
				conflict, err := hasOverlap(tx, newRoomID, newStart, newEnd, res.ID)
				if err != nil {
					return err
				}
				if conflict {
					return ErrRoomUnavailable
				}
			}

			total, err := calculateTotal(tx, room, newStart, newEnd)
			if err != nil {
				return err
			}
			res.TotalCost = total
		}

		res.UserID = newUserID
		res.RoomID = newRoomID
		res.StartDate = newStart
		res.EndDate = newEnd
		res.Status = newStatus

		if err := tx.Save(&res).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete is an unconditional hard delete. Authorization (admin-only)
// is enforced at the route layer.
func (s *ReservationService) Delete(reservationID uint) error {
	result := s.DB.Delete(&models.Reservation{}, reservationID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	return nil
}

func (s *ReservationService) GetByID(reservationID uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.DB.First(&res, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &res, nil
}

func (s *ReservationService) ListByUser(userID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.Where("user_id = ?", userID).Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

func (s *ReservationService) ListAll() ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

// BlockedIntervals returns the active date ranges of a room inside an
// optional window, exposing only room, range and status. statuses may
// narrow the view but never widen it beyond pending/paid.
func (s *ReservationService) BlockedIntervals(roomID uint, from, to *time.Time, statuses []string) ([]models.BlockedInterval, error) {
	allowed := models.ActiveStatuses
	if len(statuses) > 0 {
		filtered := make([]string, 0, len(statuses))
		for _, st := range statuses {
			if st == models.ReservationPending || st == models.ReservationPaid {
				filtered = append(filtered, st)
			}
		}
		if len(filtered) == 0 {
			return []models.BlockedInterval{}, nil
		}
		allowed = filtered
	}

	q := s.DB.Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", roomID, allowed)
	if to != nil {
		q = q.Where("start_date < ?", DateOnly(*to))
	}
	if from != nil {
		q = q.Where("end_date > ?", DateOnly(*from))
	}

	var out []models.BlockedInterval
	if err := q.Select("room_id", "start_date", "end_date", "status").
		Order("start_date ASC").
		Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load blocked intervals: %w", err)
	}
	if out == nil {
		out = []models.BlockedInterval{}
	}
	return out, nil
}
