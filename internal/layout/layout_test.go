package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownHalls(t *testing.T) {
	a, err := Get("A")
	require.NoError(t, err)
	assert.Equal(t, "Hall A", a.HallName)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, a.Rows)
	assert.Equal(t, 10, a.SeatsPerRow)

	b, err := Get("B")
	require.NoError(t, err)
	assert.Equal(t, "Hall B", b.HallName)
	assert.Len(t, b.Rows, 8)
	assert.Equal(t, 12, b.SeatsPerRow)
}

func TestGetUnknownHall(t *testing.T) {
	_, err := Get("C")
	assert.ErrorIs(t, err, ErrUnknownHall)

	_, err = Get("")
	assert.ErrorIs(t, err, ErrUnknownHall)
}

func TestSeatIDsOrderAndSize(t *testing.T) {
	a, err := Get("A")
	require.NoError(t, err)

	ids := a.SeatIDs()
	require.Len(t, ids, 60)
	assert.Equal(t, "A1", ids[0])
	assert.Equal(t, "A10", ids[9])
	assert.Equal(t, "B1", ids[10])
	assert.Equal(t, "F10", ids[59])

	// Repeated calls yield the same ordered sequence.
	assert.Equal(t, ids, a.SeatIDs())
}

func TestSeatSetMembership(t *testing.T) {
	b, err := Get("B")
	require.NoError(t, err)

	set := b.SeatSet()
	require.Len(t, set, 96)
	_, ok := set["H12"]
	assert.True(t, ok)
	_, ok = set["H13"]
	assert.False(t, ok)
	_, ok = set["I1"]
	assert.False(t, ok)
}
