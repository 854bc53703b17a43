package services

import "errors"

// Business-rule failures are expected outcomes and must stay
// distinguishable at the HTTP boundary; only infrastructure faults
// are returned as plain wrapped errors.
var (
	// ErrInvalidDateRange: start in the past, or end <= start.
	ErrInvalidDateRange = errors.New("invalid_date_range")

	// ErrRoomUnavailable: the candidate range overlaps an active
	// (pending or paid) reservation on the same room.
	ErrRoomUnavailable = errors.New("room_unavailable")

	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState: the operation is not valid for the
	// reservation's current status (e.g. capturing a non-pending
	// reservation).
	ErrInvalidState = errors.New("invalid_state")

	// ErrPaymentProvider: transport or HTTP-level failure talking to
	// the payment provider. Retriable for capture; begin-payment
	// failures cancel the reservation instead.
	ErrPaymentProvider = errors.New("payment_provider_error")

	// ErrPaymentNotCompleted: the provider answered but did not
	// confirm completion; the reservation stays pending.
	ErrPaymentNotCompleted = errors.New("payment_not_completed")
)
