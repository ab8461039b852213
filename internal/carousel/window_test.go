package carousel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSettledWindow builds a ring at start and a window whose center has
// loaded and whose remaining slots have been backfilled.
func newSettledWindow(t *testing.T, ids []string, start int) (*Ring, *Window) {
	t.Helper()
	items := makeItems(ids...)
	ring, err := NewRing(items, items[start])
	require.NoError(t, err)

	w := NewWindow(context.Background(), NewFactory(testBaseURL, newFakeFetcher(), nil), testBounds, nil)
	center := w.Initialize(ring)
	waitSettled(t, center)
	require.True(t, w.Settle(center))
	return ring, w
}

func TestWindowInitializeLoadsOnlyCenter(t *testing.T) {
	items := makeItems("A", "B", "C", "D", "E", "F", "G", "H")
	ring, err := NewRing(items, items[3])
	require.NoError(t, err)

	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	w := NewWindow(context.Background(), NewFactory(testBaseURL, fetcher, nil), testBounds, nil)

	center := w.Initialize(ring)
	assert.Equal(t, []string{"", "", "", "D", "", "", ""}, slotIDs(w))
	assert.Equal(t, LoadLoading, center.State())
	assert.Same(t, center, w.Current())

	close(fetcher.gate)
	waitSettled(t, center)
	assert.Equal(t, LoadReady, center.State())

	require.True(t, w.Settle(center))
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G"}, slotIDs(w))
}

func TestWindowShiftForward(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 3)
	before := w.Slots()

	ring.Next()
	w.ShiftForward()

	assert.Equal(t, []string{"B", "C", "D", "E", "F", "G", "H"}, slotIDs(w))
	assert.Equal(t, "E", w.Current().Item.ID)

	// surviving handles move, they are not recreated
	after := w.Slots()
	for i := 0; i < WindowSize-1; i++ {
		assert.Same(t, before[i+1], after[i])
	}
}

func TestWindowShiftBackward(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 3)
	before := w.Slots()

	ring.Prev()
	w.ShiftBackward()

	assert.Equal(t, []string{"H", "A", "B", "C", "D", "E", "F"}, slotIDs(w))
	assert.Equal(t, "C", w.Current().Item.ID)

	after := w.Slots()
	for i := 1; i < WindowSize; i++ {
		assert.Same(t, before[i-1], after[i])
	}
}

func TestWindowDiscardedHandleIsReleased(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 3)
	dropped := w.Slots()[0]

	ring.Next()
	w.ShiftForward()

	assert.False(t, w.Contains(dropped))
	assert.False(t, w.Settle(dropped), "completion of a dropped handle is stale")
}

func TestWindowSmallRingWrapsInsideWindow(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"X", "Y", "Z"}, 1)
	assert.Equal(t, []string{"Y", "Z", "X", "Y", "Z", "X", "Y"}, slotIDs(w))
	assert.Equal(t, "Y", w.Current().Item.ID)

	before := w.Slots()
	ring.Next()
	w.ShiftForward()

	assert.Equal(t, []string{"Z", "X", "Y", "Z", "X", "Y", "Z"}, slotIDs(w))
	assert.Equal(t, "Z", w.Current().Item.ID)
	assert.False(t, w.Contains(before[0]))
	assert.Same(t, before[4], w.Current())
}

func TestWindowSingleItem(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"solo"}, 0)
	assert.Equal(t, []string{"solo", "solo", "solo", "solo", "solo", "solo", "solo"}, slotIDs(w))

	ring.Next()
	w.ShiftForward()
	assert.Equal(t, "solo", w.Current().Item.ID)
	assert.Len(t, w.Slots(), WindowSize)
}

func TestWindowReanchor(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 3)
	old := w.Slots()

	ring.Last()
	center := w.Reanchor(ring)
	assert.Equal(t, []string{"", "", "", "H", "", "", ""}, slotIDs(w))
	for _, h := range old {
		assert.False(t, w.Contains(h))
	}

	waitSettled(t, center)
	require.True(t, w.Settle(center))
	assert.Equal(t, []string{"E", "F", "G", "H", "A", "B", "C"}, slotIDs(w))
}

func TestWindowShiftWhileCenterPending(t *testing.T) {
	items := makeItems("A", "B", "C", "D", "E", "F", "G", "H")
	ring, err := NewRing(items, items[0])
	require.NoError(t, err)

	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	w := NewWindow(context.Background(), NewFactory(testBaseURL, fetcher, nil), testBounds, nil)
	first := w.Initialize(ring)

	ring.Next()
	w.ShiftForward()
	assert.Equal(t, []string{"", "", "A", "B", "", "", ""}, slotIDs(w))

	// the old center settling does not backfill; only the new center does
	close(fetcher.gate)
	waitSettled(t, first)
	require.True(t, w.Settle(first))
	assert.Equal(t, []string{"", "", "A", "B", "", "", ""}, slotIDs(w))

	center := w.Current()
	waitSettled(t, center)
	require.True(t, w.Settle(center))
	assert.Equal(t, []string{"G", "H", "A", "B", "C", "D", "E"}, slotIDs(w))
}

func TestWindowLengthInvariant(t *testing.T) {
	ring, w := newSettledWindow(t, []string{"A", "B", "C", "D", "E"}, 0)

	steps := []func(){
		func() { ring.Next(); w.ShiftForward() },
		func() { ring.Prev(); w.ShiftBackward() },
		func() { ring.Next(); w.ShiftForward() },
		func() { ring.Last(); w.Settle(w.Reanchor(ring)) },
		func() { ring.First(); w.Reanchor(ring) },
	}
	for _, step := range steps {
		step()
		assert.Len(t, w.Slots(), WindowSize)
		assert.Equal(t, ring.Current().Item, w.Current().Item)
	}
}

func TestWindowFailedSlotStaysFailed(t *testing.T) {
	items := makeItems("A", "B", "C", "D", "E", "F", "G", "H")
	ring, err := NewRing(items, items[3])
	require.NoError(t, err)

	fetcher := newFakeFetcher()
	fetcher.failItem("H")
	w := NewWindow(context.Background(), NewFactory(testBaseURL, fetcher, nil), testBounds, nil)
	center := w.Initialize(ring)
	waitSettled(t, center)
	w.Settle(center)

	ring.Next()
	w.ShiftForward()
	last := w.Slots()[WindowSize-1]
	waitSettled(t, last)
	assert.Equal(t, "H", last.Item.ID)
	assert.Equal(t, LoadFailed, last.State())
}

func TestWindowClear(t *testing.T) {
	_, w := newSettledWindow(t, []string{"A", "B", "C"}, 0)
	w.Clear()
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, slotIDs(w))
	assert.Nil(t, w.Current())
}
