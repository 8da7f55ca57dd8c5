package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/booking"
	"cinebook/internal/booking/bookingtest"
	"cinebook/internal/model"
)

// recordingPublisher captures lifecycle events for assertions.
type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []uint64
	cancelled []uint64
}

func (p *recordingPublisher) PublishBookingConfirmed(ctx context.Context, b *model.Booking, st *model.Showtime) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, b.ID)
	return nil
}

func (p *recordingPublisher) PublishBookingCancelled(ctx context.Context, b *model.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, b.ID)
	return nil
}

// seedShowtime adds showtime 1 in Hall A (rows A-F, 10 seats/row) at
// 200.00 per seat.
func seedShowtime(store *bookingtest.Store) model.Showtime {
	st := model.Showtime{
		ID:         1,
		MovieID:    7,
		HallID:     "A",
		StartTime:  time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC),
		PriceCents: 20000,
	}
	store.AddShowtime(st)
	return st
}

func newEngine(t *testing.T) (*booking.Service, *bookingtest.Store, *recordingPublisher) {
	t.Helper()
	store := bookingtest.NewStore()
	seedShowtime(store)
	events := &recordingPublisher{}
	return booking.NewService(store, nil, events), store, events
}

func TestReserveSuccess(t *testing.T) {
	svc, _, events := newEngine(t)

	b, err := svc.Reserve(context.Background(), 1, 11, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, b.Seats)
	assert.Equal(t, uint32(40000), b.TotalPriceCents)
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.Equal(t, model.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, uint64(11), b.UserID)
	assert.NotZero(t, b.ID)
	assert.Equal(t, []uint64{b.ID}, events.confirmed)
}

func TestReserveEmptySeatList(t *testing.T) {
	svc, _, _ := newEngine(t)

	_, err := svc.Reserve(context.Background(), 1, 11, nil)
	assert.ErrorIs(t, err, booking.ErrInvalidRequest)

	_, err = svc.Reserve(context.Background(), 1, 11, []string{"  ", ""})
	assert.ErrorIs(t, err, booking.ErrInvalidRequest)
}

func TestReserveUnknownShowtime(t *testing.T) {
	svc, _, _ := newEngine(t)

	_, err := svc.Reserve(context.Background(), 99, 11, []string{"A1"})
	assert.ErrorIs(t, err, booking.ErrShowtimeNotFound)
}

func TestReserveInvalidSeatsRejectedWhole(t *testing.T) {
	svc, store, _ := newEngine(t)

	_, err := svc.Reserve(context.Background(), 1, 11, []string{"A1", "Z9", "F11"})
	var invalid *booking.InvalidSeatsError
	require.ErrorAs(t, err, &invalid)
	assert.ElementsMatch(t, []string{"Z9", "F11"}, invalid.Seats)

	// All-or-nothing: the valid seat must not have been claimed.
	booked, err := store.BookedSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestReserveNormalizesSeatLabels(t *testing.T) {
	svc, _, _ := newEngine(t)

	b, err := svc.Reserve(context.Background(), 1, 11, []string{" a1", "A1", "b2 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2"}, b.Seats)
	assert.Equal(t, uint32(40000), b.TotalPriceCents)
}

func TestReserveConflictReportsContestedSeatsOnly(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, 11, []string{"A1", "A2"})
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, 1, 22, []string{"A2", "A3"})
	var conflict *booking.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)

	// The non-contested seat was not claimed either.
	avail, err := svc.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, avail.AvailableSeats, "A3")
}

func TestScenarioCancelReleasesSeatsForRebooking(t *testing.T) {
	svc, _, events := newEngine(t)
	ctx := context.Background()

	first, err := svc.Reserve(ctx, 1, 11, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, uint32(40000), first.TotalPriceCents)

	_, err = svc.Reserve(ctx, 1, 22, []string{"A2", "A3"})
	var conflict *booking.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)

	cancelled, err := svc.CancelByUser(ctx, first.ID, model.Identity{UserID: 11, Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)
	assert.Equal(t, model.CancelledByUser, cancelled.CanceledBy)
	// Cancellation never alters the frozen total.
	assert.Equal(t, uint32(40000), cancelled.TotalPriceCents)
	assert.Equal(t, []uint64{first.ID}, events.cancelled)

	avail, err := svc.Availability(ctx, 1)
	require.NoError(t, err)
	assert.NotContains(t, avail.BookedSeats, "A1")
	assert.NotContains(t, avail.BookedSeats, "A2")

	retry, err := svc.Reserve(ctx, 1, 22, []string{"A2", "A3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3"}, retry.Seats)
}

func TestAvailabilitySnapshot(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	avail, err := svc.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hall A", avail.HallName)
	assert.Len(t, avail.SeatIDs, 60)
	assert.Empty(t, avail.BookedSeats)
	assert.Len(t, avail.AvailableSeats, 60)
	assert.Equal(t, uint32(20000), avail.PriceCents)

	_, err = svc.Reserve(ctx, 1, 11, []string{"C7"})
	require.NoError(t, err)

	avail, err = svc.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C7"}, avail.BookedSeats)
	assert.Len(t, avail.AvailableSeats, 59)
	assert.NotContains(t, avail.AvailableSeats, "C7")

	_, err = svc.Availability(ctx, 42)
	assert.ErrorIs(t, err, booking.ErrShowtimeNotFound)
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	svc, store, _ := newEngine(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(ctx, 1, uint64(100+i), []string{"D4", "D5"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var conflict *booking.SeatConflictError
		require.ErrorAs(t, err, &conflict)
	}
	assert.Equal(t, 1, wins, "exactly one reservation per contested seat set may succeed")

	booked, err := store.BookedSeats(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"D4", "D5"}, booked)
}

func TestConcurrentOverlappingSeatSetsStayDisjoint(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	// Every request contests E1 while also asking for a private seat.
	private := []string{"E2", "E3", "E4", "E5", "E6", "E7", "E8", "E9"}
	var wg sync.WaitGroup
	results := make([]*model.Booking, len(private))
	for i, seat := range private {
		wg.Add(1)
		go func(i int, seat string) {
			defer wg.Done()
			b, err := svc.Reserve(ctx, 1, uint64(200+i), []string{"E1", seat})
			if err == nil {
				results[i] = b
			}
		}(i, seat)
	}
	wg.Wait()

	seen := map[string]int{}
	wins := 0
	for _, b := range results {
		if b == nil {
			continue
		}
		wins++
		for _, seat := range b.Seats {
			seen[seat]++
		}
	}
	assert.Equal(t, 1, wins)
	for seat, n := range seen {
		assert.Equal(t, 1, n, "seat %s claimed more than once", seat)
	}
}

func TestCancelByUserPaths(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()
	owner := model.Identity{UserID: 11, Role: model.RoleUser}
	stranger := model.Identity{UserID: 99, Role: model.RoleUser}

	b, err := svc.Reserve(ctx, 1, 11, []string{"B1"})
	require.NoError(t, err)

	// Another user's booking is reported as not found, not forbidden.
	_, err = svc.CancelByUser(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	_, err = svc.CancelByUser(ctx, b.ID, owner)
	require.NoError(t, err)

	// Cancelling twice is indistinguishable from not found.
	_, err = svc.CancelByUser(ctx, b.ID, owner)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	_, err = svc.CancelByUser(ctx, 4242, owner)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestCancelByAdminPaths(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	b, err := svc.Reserve(ctx, 1, 11, []string{"B2"})
	require.NoError(t, err)

	cancelled, err := svc.CancelByAdmin(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CancelledByAdmin, cancelled.CanceledBy)

	// The admin path distinguishes the already-cancelled case.
	_, err = svc.CancelByAdmin(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)

	_, err = svc.CancelByAdmin(ctx, 4242)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestRemoveCancelled(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	b, err := svc.Reserve(ctx, 1, 11, []string{"B3"})
	require.NoError(t, err)

	err = svc.RemoveCancelled(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrNotCancelled)

	_, err = svc.CancelByAdmin(ctx, b.ID)
	require.NoError(t, err)

	history, err := svc.History(ctx, 11)
	require.NoError(t, err)
	require.Len(t, history, 1, "cancelled bookings stay visible until removed")

	require.NoError(t, svc.RemoveCancelled(ctx, b.ID))

	history, err = svc.History(ctx, 11)
	require.NoError(t, err)
	assert.Empty(t, history)

	err = svc.RemoveCancelled(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestHistoryAndListAllOrdering(t *testing.T) {
	svc, _, _ := newEngine(t)
	ctx := context.Background()

	first, err := svc.Reserve(ctx, 1, 11, []string{"C1"})
	require.NoError(t, err)
	second, err := svc.Reserve(ctx, 1, 11, []string{"C2"})
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 1, 22, []string{"C3"})
	require.NoError(t, err)

	history, err := svc.History(ctx, 11)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID, "newest first")
	assert.Equal(t, first.ID, history[1].ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReserveCommitConflictResolvedToContestedSeats(t *testing.T) {
	// Simulate losing the race at commit: the store accepts the
	// pre-check read but rejects the insert.
	store := bookingtest.NewStore()
	seedShowtime(store)
	raced := &racingStore{Store: store}
	svc := booking.NewService(raced, nil, nil)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, 11, []string{"F1", "F2"})
	require.NoError(t, err)

	raced.hideBookedOnce = true
	_, err = svc.Reserve(ctx, 1, 22, []string{"F2", "F3"})
	var conflict *booking.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"F2"}, conflict.Seats)
}

// racingStore hides booked seats from one read so the service's
// advisory pre-check passes and the conflict is only caught at commit.
type racingStore struct {
	*bookingtest.Store
	hideBookedOnce bool
}

func (r *racingStore) BookedSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	if r.hideBookedOnce {
		r.hideBookedOnce = false
		return nil, nil
	}
	return r.Store.BookedSeats(ctx, showtimeID)
}

func TestPublisherFailureDoesNotFailReserve(t *testing.T) {
	store := bookingtest.NewStore()
	seedShowtime(store)
	svc := booking.NewService(store, nil, failingPublisher{})

	b, err := svc.Reserve(context.Background(), 1, 11, []string{"A5"})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
}

type failingPublisher struct{}

func (failingPublisher) PublishBookingConfirmed(ctx context.Context, b *model.Booking, st *model.Showtime) error {
	return errors.New("broker down")
}

func (failingPublisher) PublishBookingCancelled(ctx context.Context, b *model.Booking) error {
	return errors.New("broker down")
}
