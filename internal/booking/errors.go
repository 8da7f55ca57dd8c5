// Package booking implements the seat inventory and reservation engine:
// availability snapshots, the reservation transaction, the booking
// lifecycle state machine and the payment adapter boundary.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors recognized at the API boundary.  Handlers translate
// them into structured HTTP responses; none of them leaks storage
// details.
var (
	// ErrInvalidRequest is returned for an empty or malformed seat list.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrShowtimeNotFound is returned when the referenced showtime does
	// not exist in the catalog.
	ErrShowtimeNotFound = errors.New("showtime not found")
	// ErrBookingNotFound is returned when a booking is absent.  The
	// user-facing cancel path also returns it for bookings that exist
	// but are not cancellable by the caller, so state is not leaked.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyCancelled is returned on the admin cancel path when the
	// booking is already cancelled.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	// ErrNotCancelled is returned when attempting to remove a booking
	// that is still confirmed.
	ErrNotCancelled = errors.New("booking not cancelled")
	// ErrForbidden is returned when a caller operates on a booking they
	// neither own nor administer.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyPaid is returned when initiating payment on a booking
	// that has already been paid.
	ErrAlreadyPaid = errors.New("booking already paid")
	// ErrReferenceMismatch is returned when a verification reference
	// does not match the one stored at initiation.
	ErrReferenceMismatch = errors.New("payment reference mismatch")
	// ErrPaymentIncomplete is returned when the gateway reports a
	// non-success result for a payment lookup.
	ErrPaymentIncomplete = errors.New("payment not completed")
	// ErrPaymentNotPending is returned when verifying a booking with no
	// payment in progress; the caller must initiate again first.
	ErrPaymentNotPending = errors.New("payment not pending")
	// ErrPaymentGateway wraps opaque upstream gateway failures.
	ErrPaymentGateway = errors.New("payment gateway error")
)

// InvalidSeatsError reports requested seats that are not part of the
// hall's seat universe.  The whole request is rejected; partial
// acceptance is never allowed.
type InvalidSeatsError struct {
	Seats []string
}

func (e *InvalidSeatsError) Error() string {
	return fmt.Sprintf("invalid seats: %s", strings.Join(e.Seats, ","))
}

// SeatConflictError reports requested seats already held by another
// confirmed booking for the same showtime.  It is produced both by the
// validation-time check and by a storage uniqueness violation at
// commit; the two are indistinguishable to callers.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "seat conflict"
	}
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Seats, ","))
}
