// Package repository implements the engine's persistence over MySQL.
// It is the storage layer behind booking.Store: conflict detection for
// seat claims happens here, at commit time, through the seat_claims
// unique key.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"cinebook/internal/booking"
	"cinebook/internal/model"
)

// ShowtimeRepo reads showtime rows.  Showtimes are created and edited
// by the catalog service; this engine only ever reads them.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetShowtime returns a showtime by id.  It returns
// booking.ErrShowtimeNotFound when no row exists.
func (r *ShowtimeRepo) GetShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, price_cents, created_at, updated_at
	           FROM showtimes WHERE id = ?`
	var st model.Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&st.ID, &st.MovieID, &st.HallID, &st.StartTime, &st.PriceCents,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ListShowtimesByMovie returns all showtimes for a movie ordered by
// start time ascending.  An empty slice is returned when none exist.
func (r *ShowtimeRepo) ListShowtimesByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, price_cents, created_at, updated_at
	           FROM showtimes WHERE movie_id = ? ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(&st.ID, &st.MovieID, &st.HallID, &st.StartTime, &st.PriceCents, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
