package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"cinebook/internal/booking"
	"cinebook/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique key violation.
const mysqlDupEntry = 1062

// BookingRepo persists bookings and their seat claims.  A booking row
// is the durable record (seat labels, price, status, payment); the
// seat_claims rows are the inventory: one row per (showtime, seat)
// that exists exactly while the booking is confirmed.  The unique key
// on seat_claims is what makes reservation commits safe under
// concurrency.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// seatSeparator joins seat labels in the bookings.seat_labels column.
// Labels never contain commas ({row}{number}).
const seatSeparator = ","

// BookedSeats returns every seat currently claimed by a confirmed
// booking for the showtime, ordered for deterministic output.
func (r *BookingRepo) BookedSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	const q = `SELECT seat_label FROM seat_claims WHERE showtime_id = ? ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]string, 0)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateBooking inserts the booking row and its seat claims in one
// transaction.  A duplicate-key violation on seat_claims means another
// confirmed booking already holds one of the requested seats; it is
// surfaced as *booking.SeatConflictError so callers cannot tell a
// commit-time conflict from a validation-time one.  On success the
// generated ID and DB timestamps are populated on b.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var userID sql.NullInt64
	if b.UserID != 0 {
		userID = sql.NullInt64{Int64: int64(b.UserID), Valid: true}
	}
	const ins = `INSERT INTO bookings (user_id, showtime_id, seat_labels, total_price_cents, status, payment_status)
	             VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		userID, b.ShowtimeID, strings.Join(b.Seats, seatSeparator),
		b.TotalPriceCents, string(b.Status), string(b.PaymentStatus),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	claims := `INSERT INTO seat_claims (booking_id, showtime_id, seat_label) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*3)
	for i, seat := range b.Seats {
		if i > 0 {
			claims += ","
		}
		claims += "(?, ?, ?)"
		args = append(args, b.ID, b.ShowtimeID, seat)
	}
	if _, err := tx.ExecContext(ctx, claims, args...); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry {
			return &booking.SeatConflictError{}
		}
		return err
	}

	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// bookingColumns is the select list every booking scan uses.
const bookingColumns = `id, user_id, showtime_id, seat_labels, total_price_cents,
	status, canceled_by, payment_status, payment_ref, paid_at, created_at, updated_at`

// scanBooking scans one bookings row from the given row scanner.
func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var (
		b          model.Booking
		userID     sql.NullInt64
		seatLabels string
		canceledBy sql.NullString
		paymentRef sql.NullString
		paidAt     sql.NullTime
	)
	err := scan(
		&b.ID, &userID, &b.ShowtimeID, &seatLabels, &b.TotalPriceCents,
		&b.Status, &canceledBy, &b.PaymentStatus, &paymentRef, &paidAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		b.UserID = uint64(userID.Int64)
	}
	if seatLabels != "" {
		b.Seats = strings.Split(seatLabels, seatSeparator)
	} else {
		b.Seats = []string{}
	}
	if canceledBy.Valid {
		b.CanceledBy = model.CancelActor(canceledBy.String)
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		b.PaymentRef = &ref
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	return &b, nil
}

// GetBooking returns a booking by id or booking.ErrBookingNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListBookingsByUser returns all of the user's bookings, newest first.
func (r *BookingRepo) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q, userID)
}

// ListBookings returns every booking, newest first.
func (r *BookingRepo) ListBookings(ctx context.Context) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q)
}

func (r *BookingRepo) listBookings(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelBooking marks a confirmed booking cancelled and releases its
// seat claims in one transaction.  The UPDATE is guarded on the
// current status so concurrent cancels cannot both succeed; when no
// row changes the booking is either absent (ErrBookingNotFound) or
// already cancelled (ErrAlreadyCancelled).
func (r *BookingRepo) CancelBooking(ctx context.Context, id uint64, by model.CancelActor) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upd = `UPDATE bookings SET status = ?, canceled_by = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, upd, model.BookingCancelled, string(by), id, model.BookingConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return booking.ErrAlreadyCancelled
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_claims WHERE booking_id = ?`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteBooking permanently removes a cancelled booking.  Confirmed
// bookings are never deleted directly; they must be cancelled first.
func (r *BookingRepo) DeleteBooking(ctx context.Context, id uint64) error {
	const del = `DELETE FROM bookings WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, del, id, model.BookingCancelled)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return booking.ErrNotCancelled
	}
	return nil
}

// UpdatePayment sets the booking's payment status, and the provider
// reference and paid timestamp when provided.  Passing nil leaves a
// column untouched.
func (r *BookingRepo) UpdatePayment(ctx context.Context, id uint64, status model.PaymentStatus, ref *string, paidAt *time.Time) error {
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM bookings WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	const upd = `UPDATE bookings
	             SET payment_status = ?,
	                 payment_ref = COALESCE(?, payment_ref),
	                 paid_at = COALESCE(?, paid_at)
	             WHERE id = ?`
	var refArg sql.NullString
	if ref != nil {
		refArg = sql.NullString{String: *ref, Valid: true}
	}
	var paidArg sql.NullTime
	if paidAt != nil {
		paidArg = sql.NullTime{Time: paidAt.UTC(), Valid: true}
	}
	_, err = r.db.ExecContext(ctx, upd, string(status), refArg, paidArg, id)
	return err
}
