package repository

import "database/sql"

// Store combines the showtime and booking repositories into the single
// persistence boundary the engine consumes.
type Store struct {
	*ShowtimeRepo
	*BookingRepo
}

// NewStore returns a Store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		ShowtimeRepo: NewShowtimeRepo(db),
		BookingRepo:  NewBookingRepo(db),
	}
}
