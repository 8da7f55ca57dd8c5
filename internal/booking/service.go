package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cinebook/internal/layout"
	"cinebook/internal/model"
)

// Service is the reservation engine.  It owns no state of its own; all
// durable state lives behind Store, and the per-showtime seat
// uniqueness invariant is enforced there.  Different showtimes need no
// coordination and their operations run fully in parallel.
type Service struct {
	store   Store
	gateway PaymentGateway
	events  EventPublisher
	now     func() time.Time
}

// NewService constructs the engine.  store must be non-nil; gateway and
// events may be nil, which disables payments and event publishing
// respectively.
func NewService(store Store, gateway PaymentGateway, events EventPublisher) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	return &Service{
		store:   store,
		gateway: gateway,
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Availability is a read-only snapshot of a showtime's seat inventory.
// It carries the full seat universe derived from the hall layout, the
// seats held by confirmed bookings, and their difference.  The
// snapshot does not guarantee a seat stays available until a
// reservation is attempted; Reserve closes that gap at commit time.
type Availability struct {
	ShowtimeID     uint64    `json:"showtime_id"`
	MovieID        uint64    `json:"movie_id"`
	HallID         string    `json:"hall_id"`
	HallName       string    `json:"hall_name"`
	StartTime      time.Time `json:"start_time"`
	PriceCents     uint32    `json:"price_cents"`
	Rows           []string  `json:"rows"`
	SeatsPerRow    int       `json:"seats_per_row"`
	SeatIDs        []string  `json:"seat_ids"`
	BookedSeats    []string  `json:"booked_seats"`
	AvailableSeats []string  `json:"available_seats"`
}

// Availability resolves the showtime, computes its seat universe from
// the hall layout and subtracts the seats held by confirmed bookings.
func (s *Service) Availability(ctx context.Context, showtimeID uint64) (*Availability, error) {
	st, err := s.store.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	hall, err := layout.Get(st.HallID)
	if err != nil {
		return nil, err
	}
	booked, err := s.store.BookedSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, seat := range booked {
		taken[seat] = struct{}{}
	}
	universe := hall.SeatIDs()
	available := make([]string, 0, len(universe)-len(taken))
	for _, seat := range universe {
		if _, ok := taken[seat]; !ok {
			available = append(available, seat)
		}
	}
	if booked == nil {
		booked = []string{}
	}
	return &Availability{
		ShowtimeID:     st.ID,
		MovieID:        st.MovieID,
		HallID:         hall.HallID,
		HallName:       hall.HallName,
		StartTime:      st.StartTime,
		PriceCents:     st.PriceCents,
		Rows:           hall.Rows,
		SeatsPerRow:    hall.SeatsPerRow,
		SeatIDs:        universe,
		BookedSeats:    booked,
		AvailableSeats: available,
	}, nil
}

// Showtimes lists a movie's showtimes, read-only from the catalog.
func (s *Service) Showtimes(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	return s.store.ListShowtimesByMovie(ctx, movieID)
}

// normalizeSeats uppercases, trims and de-duplicates seat labels while
// preserving first-seen order.
func normalizeSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, raw := range seats {
		seat := strings.ToUpper(strings.TrimSpace(raw))
		if seat == "" {
			continue
		}
		if _, ok := seen[seat]; ok {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	return out
}

// Reserve validates a seat request against the hall layout and current
// availability and durably records a confirmed booking.  The request
// is all-or-nothing: one invalid or conflicting seat voids it
// entirely.  The conflict check here is advisory; the commit through
// Store is what guarantees no double booking under concurrency.
func (s *Service) Reserve(ctx context.Context, showtimeID, userID uint64, seats []string) (*model.Booking, error) {
	requested := normalizeSeats(seats)
	if len(requested) == 0 {
		return nil, ErrInvalidRequest
	}
	st, err := s.store.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	hall, err := layout.Get(st.HallID)
	if err != nil {
		return nil, err
	}
	universe := hall.SeatSet()
	var invalid []string
	for _, seat := range requested {
		if _, ok := universe[seat]; !ok {
			invalid = append(invalid, seat)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidSeatsError{Seats: invalid}
	}
	if conflicted, err := s.contestedSeats(ctx, showtimeID, requested); err != nil {
		return nil, err
	} else if len(conflicted) > 0 {
		return nil, &SeatConflictError{Seats: conflicted}
	}

	b := &model.Booking{
		UserID:          userID,
		ShowtimeID:      st.ID,
		Seats:           requested,
		TotalPriceCents: uint32(len(requested)) * st.PriceCents,
		Status:          model.BookingConfirmed,
		PaymentStatus:   model.PaymentUnpaid,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) && len(conflict.Seats) == 0 {
			// Lost the race at commit.  Re-resolve so the caller learns
			// which of their seats were taken.
			if contested, cErr := s.contestedSeats(ctx, showtimeID, requested); cErr == nil && len(contested) > 0 {
				return nil, &SeatConflictError{Seats: contested}
			}
		}
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishBookingConfirmed(ctx, b, st); err != nil {
			log.Printf("booking: publish confirmed event failed: %v", err)
		}
	}
	return b, nil
}

// contestedSeats returns the subset of requested seats currently held
// by confirmed bookings for the showtime, in request order.
func (s *Service) contestedSeats(ctx context.Context, showtimeID uint64, requested []string) ([]string, error) {
	booked, err := s.store.BookedSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, seat := range booked {
		taken[seat] = struct{}{}
	}
	var contested []string
	for _, seat := range requested {
		if _, ok := taken[seat]; ok {
			contested = append(contested, seat)
		}
	}
	return contested, nil
}

// CancelByUser cancels a booking on behalf of its owner.  Bookings
// that do not exist, belong to someone else or are already cancelled
// all report ErrBookingNotFound: from the caller's perspective these
// cases are indistinguishable so no state is leaked.  Seats are
// released immediately since availability is computed live from
// confirmed bookings only.
func (s *Service) CancelByUser(ctx context.Context, bookingID uint64, ident model.Identity) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(ident.UserID) || !b.IsConfirmed() {
		return nil, ErrBookingNotFound
	}
	if err := s.store.CancelBooking(ctx, bookingID, model.CancelledByUser); err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.afterCancel(ctx, bookingID)
}

// CancelByAdmin cancels any confirmed booking.  Unlike the user path
// it reports ErrAlreadyCancelled explicitly for operational clarity.
func (s *Service) CancelByAdmin(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	if _, err := s.store.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	if err := s.store.CancelBooking(ctx, bookingID, model.CancelledByAdmin); err != nil {
		return nil, err
	}
	return s.afterCancel(ctx, bookingID)
}

func (s *Service) afterCancel(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		if err := s.events.PublishBookingCancelled(ctx, b); err != nil {
			log.Printf("booking: publish cancelled event failed: %v", err)
		}
	}
	return b, nil
}

// RemoveCancelled permanently deletes a cancelled booking.  This is
// the only deletion path: confirmed bookings must be cancelled first,
// preserving an audit trail during the cancelled window.
func (s *Service) RemoveCancelled(ctx context.Context, bookingID uint64) error {
	return s.store.DeleteBooking(ctx, bookingID)
}

// History returns all of the user's bookings, newest first, including
// cancelled ones not yet removed.
func (s *Service) History(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

// ListAll returns every booking for operator review, newest first.
func (s *Service) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.store.ListBookings(ctx)
}
