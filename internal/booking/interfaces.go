package booking

import (
	"context"
	"time"

	"cinebook/internal/model"
)

// Store is the persistence boundary of the engine.  Implementations
// MUST enforce seat uniqueness at the storage layer: CreateBooking has
// to guarantee that no two confirmed bookings for the same showtime
// ever register overlapping seats, and report a violation as
// *SeatConflictError.  A check-then-insert implementation without that
// guarantee will double-book under load.
type Store interface {
	// GetShowtime returns catalog data for a showtime, read-only.
	// Returns ErrShowtimeNotFound when absent.
	GetShowtime(ctx context.Context, id uint64) (*model.Showtime, error)
	// ListShowtimesByMovie returns all showtimes for a movie ordered by
	// start time.
	ListShowtimesByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error)

	// BookedSeats returns the union of seats across all confirmed
	// bookings for the showtime.
	BookedSeats(ctx context.Context, showtimeID uint64) ([]string, error)
	// CreateBooking persists a new confirmed booking and its seat
	// claims atomically, populating ID and timestamps.  Returns
	// *SeatConflictError when any seat is already claimed.
	CreateBooking(ctx context.Context, b *model.Booking) error
	// GetBooking returns a booking by id or ErrBookingNotFound.
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	// ListBookingsByUser returns the user's bookings, newest first.
	ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	// ListBookings returns all bookings, newest first.
	ListBookings(ctx context.Context) ([]model.Booking, error)
	// CancelBooking marks a confirmed booking cancelled with the given
	// attribution and releases its seat claims, atomically.  Returns
	// ErrBookingNotFound when absent and ErrAlreadyCancelled when the
	// booking exists but is no longer confirmed.
	CancelBooking(ctx context.Context, id uint64, by model.CancelActor) error
	// DeleteBooking permanently removes a cancelled booking.  Returns
	// ErrBookingNotFound when absent and ErrNotCancelled when the
	// booking is still confirmed.
	DeleteBooking(ctx context.Context, id uint64) error
	// UpdatePayment sets the payment fields of a booking.  ref and
	// paidAt are applied only when non-nil.
	UpdatePayment(ctx context.Context, id uint64, status model.PaymentStatus, ref *string, paidAt *time.Time) error
}

// PaymentIntent is the gateway's answer to a payment initiation: an
// opaque provider reference and the URL the customer is redirected to.
type PaymentIntent struct {
	Ref         string `json:"ref"`
	RedirectURL string `json:"payment_url"`
}

// PaymentResult is the outcome of a payment verification lookup.
// Status carries the provider's raw status string for logging.
type PaymentResult struct {
	Completed bool
	Status    string
}

// PaymentGateway is the narrow boundary to the third-party payment
// provider.  The engine only depends on these two calls; settlement
// itself is out of scope.  Both calls should be time-bounded by ctx.
type PaymentGateway interface {
	Initiate(ctx context.Context, b *model.Booking) (*PaymentIntent, error)
	Verify(ctx context.Context, ref string) (*PaymentResult, error)
}

// EventPublisher receives lifecycle notifications after a state change
// has been committed.  Publish failures must not fail the operation;
// the engine ignores returned errors beyond logging.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, b *model.Booking, st *model.Showtime) error
	PublishBookingCancelled(ctx context.Context, b *model.Booking) error
}
