package model

import "time"

// Showtime is a scheduled screening of a movie in a specific hall at a
// specific time and per-seat price.  Showtimes are created and edited
// by the catalog service; this engine consumes them read-only.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  HallID     – hall id resolving into the layout registry.
//  StartTime  – when the screening begins (UTC).
//  PriceCents – per-seat price in cents; bookings freeze
//               len(seats) × PriceCents at reservation time.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Showtime struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	HallID     string    `json:"hall_id"`
	StartTime  time.Time `json:"start_time"`
	PriceCents uint32    `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
