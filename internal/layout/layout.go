// Package layout holds the static hall layout registry.  A hall layout
// defines the complete seat grid of a theater hall: an ordered list of
// row labels and a fixed number of seats per row.  The set of valid
// seat ids for a hall is fully determined by its layout and never
// changes at runtime, so the registry is compiled in rather than
// stored in the database.
package layout

import (
	"errors"
	"fmt"
)

// ErrUnknownHall is returned when a hall id is not part of the
// registry's closed set.
var ErrUnknownHall = errors.New("unknown hall")

// HallLayout describes the seat grid of a single hall.
//
// Fields:
//  HallID      – short identifier referenced by showtimes (e.g. "A").
//  HallName    – human readable name (e.g. "Hall A").
//  Rows        – ordered row labels; iteration order defines seat order.
//  SeatsPerRow – number of seats in every row, numbered 1..SeatsPerRow.
type HallLayout struct {
	HallID      string
	HallName    string
	Rows        []string
	SeatsPerRow int
}

// halls is the closed set of known hall layouts.  Adding a hall is a
// code change, matching the catalog's fixed pair of physical halls.
var halls = map[string]HallLayout{
	"A": {
		HallID:      "A",
		HallName:    "Hall A",
		Rows:        []string{"A", "B", "C", "D", "E", "F"},
		SeatsPerRow: 10,
	},
	"B": {
		HallID:      "B",
		HallName:    "Hall B",
		Rows:        []string{"A", "B", "C", "D", "E", "F", "G", "H"},
		SeatsPerRow: 12,
	},
}

// Get returns the layout for the given hall id.  It returns
// ErrUnknownHall when the id is not in the registry.
func Get(hallID string) (HallLayout, error) {
	h, ok := halls[hallID]
	if !ok {
		return HallLayout{}, fmt.Errorf("%w: %q", ErrUnknownHall, hallID)
	}
	return h, nil
}

// SeatIDs generates the ordered seat id universe for the layout.  Rows
// are iterated in declared order and seats 1..SeatsPerRow within each
// row, producing ids like "C7".  The sequence is deterministic: the
// same layout always yields the same ordering, which both rendering
// and seat validation rely on.
func (h HallLayout) SeatIDs() []string {
	out := make([]string, 0, len(h.Rows)*h.SeatsPerRow)
	for _, row := range h.Rows {
		for n := 1; n <= h.SeatsPerRow; n++ {
			out = append(out, fmt.Sprintf("%s%d", row, n))
		}
	}
	return out
}

// SeatSet returns the seat id universe as a set for membership checks.
func (h HallLayout) SeatSet() map[string]struct{} {
	ids := h.SeatIDs()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
