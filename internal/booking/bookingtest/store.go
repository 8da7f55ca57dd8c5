// Package bookingtest provides an in-memory booking.Store for tests.
// It enforces the same per-showtime seat uniqueness the production
// store guarantees with its unique key, but under a single mutex, so
// engine and handler tests can exercise racing reservations without a
// database.
package bookingtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"cinebook/internal/booking"
	"cinebook/internal/model"
)

// Store is an in-memory implementation of booking.Store.
type Store struct {
	mu        sync.Mutex
	seq       uint64
	showtimes map[uint64]model.Showtime
	bookings  map[uint64]*model.Booking
	// claims maps showtime id -> seat label -> owning booking id.  A
	// claim exists exactly while its booking is confirmed, mirroring
	// the seat_claims table.
	claims map[uint64]map[string]uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		showtimes: make(map[uint64]model.Showtime),
		bookings:  make(map[uint64]*model.Booking),
		claims:    make(map[uint64]map[string]uint64),
	}
}

// AddShowtime seeds a catalog row.
func (s *Store) AddShowtime(st model.Showtime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showtimes[st.ID] = st
}

func (s *Store) GetShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.showtimes[id]
	if !ok {
		return nil, booking.ErrShowtimeNotFound
	}
	return &st, nil
}

func (s *Store) ListShowtimesByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Showtime
	for _, st := range s.showtimes {
		if st.MovieID == movieID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) BookedSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := make([]string, 0, len(s.claims[showtimeID]))
	for seat := range s.claims[showtimeID] {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := s.claims[b.ShowtimeID]
	for _, seat := range b.Seats {
		if _, taken := held[seat]; taken {
			// The production store surfaces a bare uniqueness violation
			// here; which seats were contested is not part of the error.
			return &booking.SeatConflictError{}
		}
	}
	s.seq++
	b.ID = s.seq
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	stored.Seats = append([]string(nil), b.Seats...)
	s.bookings[b.ID] = &stored
	if held == nil {
		held = make(map[string]uint64)
		s.claims[b.ShowtimeID] = held
	}
	for _, seat := range stored.Seats {
		held[seat] = stored.ID
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	cp.Seats = append([]string(nil), b.Seats...)
	return &cp, nil
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			cp := *b
			cp.Seats = append([]string(nil), b.Seats...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		cp := *b
		cp.Seats = append([]string(nil), b.Seats...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CancelBooking(ctx context.Context, id uint64, by model.CancelActor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != model.BookingConfirmed {
		return booking.ErrAlreadyCancelled
	}
	b.Status = model.BookingCancelled
	b.CanceledBy = by
	b.UpdatedAt = time.Now().UTC()
	for seat, owner := range s.claims[b.ShowtimeID] {
		if owner == id {
			delete(s.claims[b.ShowtimeID], seat)
		}
	}
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != model.BookingCancelled {
		return booking.ErrNotCancelled
	}
	delete(s.bookings, id)
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, id uint64, status model.PaymentStatus, ref *string, paidAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	b.PaymentStatus = status
	if ref != nil {
		r := *ref
		b.PaymentRef = &r
	}
	if paidAt != nil {
		t := *paidAt
		b.PaidAt = &t
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}
