package services

import (
	"errors"
	"fmt"
	"log"

	"ventura-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Capture statuses the provider may report that count as settled.
var completedCaptureStatuses = map[string]bool{
	"COMPLETED": true,
	"APPROVED":  true,
}

// PaymentService drives the pending->paid transition against the
// external provider. Both phases are single-attempt: retry policy, if
// any, belongs to the caller, and the pending-status gate makes a
// repeated capture on an already-paid reservation fail fast instead
// of re-capturing.
type PaymentService struct {
	DB        *gorm.DB
	Provider  PaymentProvider
	Documents *DocumentService
	Currency  string
}

func NewPaymentService(db *gorm.DB, provider PaymentProvider, documents *DocumentService, currency string) *PaymentService {
	return &PaymentService{DB: db, Provider: provider, Documents: documents, Currency: currency}
}

// BeginPayment creates a provider order for a pending reservation that
// has no order yet. On provider failure (or a response without an
// order id) the reservation is cancelled so it does not hold the room
// hostage with no live payment attempt.
func (s *PaymentService) BeginPayment(reservationID, callerID uint, callerRole string) (*models.Reservation, string, error) {
	var res models.Reservation
	if err := s.DB.First(&res, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, "", fmt.Errorf("failed to load reservation: %w", err)
	}

	if res.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, "", fmt.Errorf("%w: not the reservation owner", ErrForbidden)
	}
	if res.Status != models.ReservationPending {
		return nil, "", fmt.Errorf("%w: reservation is %s, not pending", ErrInvalidState, res.Status)
	}
	if res.PaymentOrderID != nil {
		return nil, "", fmt.Errorf("%w: payment already begun", ErrInvalidState)
	}

	amount := res.TotalCost.StringFixed(2)
	order, err := s.Provider.CreateOrder(amount, s.Currency, fmt.Sprintf("%d", res.ID))
	if err != nil {
		s.cancelAfterProviderFailure(&res, err)
		return nil, "", err
	}

	if err := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ? AND payment_order_id IS NULL", res.ID, models.ReservationPending).
		Update("payment_order_id", order.OrderID).Error; err != nil {
		return nil, "", fmt.Errorf("failed to store payment order id: %w", err)
	}
	res.PaymentOrderID = &order.OrderID

	return &res, order.ApproveURL, nil
}

func (s *PaymentService) cancelAfterProviderFailure(res *models.Reservation, cause error) {
	result := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", res.ID, models.ReservationPending).
		Update("status", models.ReservationCancelled)
	if result.Error != nil {
		log.Printf("warning: failed to cancel reservation %d after provider failure (%v): %v", res.ID, cause, result.Error)
		return
	}
	res.Status = models.ReservationCancelled
	log.Printf("reservation %d cancelled after provider failure: %v", res.ID, cause)
}

// CompletePayment captures the provider order and, on a confirmed
// capture, marks the reservation paid. Capture failures leave the
// reservation pending so the caller may retry; the receipt document
// is best-effort and never rolls back the payment.
func (s *PaymentService) CompletePayment(reservationID, callerID uint, callerRole string) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.DB.First(&res, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	if res.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the reservation owner", ErrForbidden)
	}
	if res.Status != models.ReservationPending {
		return nil, fmt.Errorf("%w: reservation is %s, not pending", ErrInvalidState, res.Status)
	}
	if res.PaymentOrderID == nil {
		return nil, fmt.Errorf("%w: payment has not been begun", ErrInvalidState)
	}

	capture, err := s.Provider.CaptureOrder(*res.PaymentOrderID)
	if err != nil {
		return nil, err
	}

	if !completedCaptureStatuses[capture.Status] {
		return nil, fmt.Errorf("%w: provider status %q", ErrPaymentNotCompleted, capture.Status)
	}

	updates := map[string]any{
		"status":             models.ReservationPaid,
		"payment_capture_id": capture.CaptureID,
	}
	if len(capture.Raw) > 0 {
		updates["payment_meta"] = datatypes.JSON(capture.Raw)
	}

	result := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", res.ID, models.ReservationPending).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark reservation paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race with another successful capture call.
		return nil, fmt.Errorf("%w: reservation is no longer pending", ErrInvalidState)
	}

	res.Status = models.ReservationPaid
	res.PaymentCaptureID = &capture.CaptureID
	res.PaymentMeta = datatypes.JSON(capture.Raw)

	// The money has moved: receipt failures are logged, never surfaced
	// as payment failures.
	if s.Documents != nil {
		if _, err := s.Documents.ReceiptForReservation(&res); err != nil {
			log.Printf("warning: failed to generate receipt for reservation %d: %v", res.ID, err)
		}
	}

	return &res, nil
}
