package carousel

import (
	"context"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// Window geometry: three items of look-behind, the current item, three of look-ahead
const (
	WindowSize = 7
	CenterSlot = 3
)

// HandleFactory creates loading media handles (implemented by *Factory)
type HandleFactory interface {
	Create(ctx context.Context, item *domain.Item, b Bounds) *MediaHandle
}

// Window is the prefetch cache: a fixed-length sliding window of media handles
// centered on the ring's current node. Slot CenterSlot always holds the current item.
type Window struct {
	ctx     context.Context
	factory HandleFactory
	bounds  Bounds
	logger  *slog.Logger

	ring  *Ring
	slots [WindowSize]*MediaHandle

	// awaitingCenter is set between (re)initialization and the center load settling
	awaitingCenter bool
}

// NewWindow creates an empty window. Handles inherit ctx, so cancelling it
// cancels every in-flight load.
func NewWindow(ctx context.Context, factory HandleFactory, bounds Bounds, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{ctx: ctx, factory: factory, bounds: bounds, logger: logger}
}

// Initialize drops all handles and loads only the current node into the center slot.
// The other slots are filled by Settle once the center has loaded.
func (w *Window) Initialize(ring *Ring) *MediaHandle {
	w.Clear()
	w.ring = ring
	w.slots[CenterSlot] = w.create(ring.Walk())
	w.awaitingCenter = true
	return w.slots[CenterSlot]
}

// Reanchor re-initializes the window at the ring's (jumped-to) current node
func (w *Window) Reanchor(ring *Ring) *MediaHandle {
	return w.Initialize(ring)
}

// Settle reports that h finished loading. When h is the awaited center handle
// the remaining slots are backfilled. It returns false for handles that are no
// longer part of the window or have not settled yet.
func (w *Window) Settle(h *MediaHandle) bool {
	if !w.Contains(h) || h.State() == LoadLoading {
		return false
	}
	if w.awaitingCenter && h == w.slots[CenterSlot] {
		w.awaitingCenter = false
		w.Backfill()
	}
	return true
}

// Backfill creates handles for every empty slot, walking from three nodes
// behind the current one with a private cursor.
func (w *Window) Backfill() {
	if w.ring == nil {
		return
	}
	cursor := w.ring.Walk().Offset(-CenterSlot)
	for i := range w.slots {
		if w.slots[i] == nil {
			w.slots[i] = w.create(cursor)
		}
		cursor = cursor.Next()
	}
}

// ShiftForward moves the window one step after the ring advanced:
// slot 0 is dropped, slots 1..6 move down and slot 6 is loaded.
func (w *Window) ShiftForward() {
	w.release(0)
	copy(w.slots[:WindowSize-1], w.slots[1:])
	w.slots[WindowSize-1] = nil
	w.fill()
}

// ShiftBackward mirrors ShiftForward after the ring stepped back
func (w *Window) ShiftBackward() {
	w.release(WindowSize - 1)
	copy(w.slots[1:], w.slots[:WindowSize-1])
	w.slots[0] = nil
	w.fill()
}

// Current returns the center handle
func (w *Window) Current() *MediaHandle {
	return w.slots[CenterSlot]
}

// Slots returns a copy of the window
func (w *Window) Slots() [WindowSize]*MediaHandle {
	return w.slots
}

// Contains reports whether h currently occupies a slot
func (w *Window) Contains(h *MediaHandle) bool {
	if h == nil {
		return false
	}
	for _, s := range w.slots {
		if s == h {
			return true
		}
	}
	return false
}

// Clear releases every handle and empties the window
func (w *Window) Clear() {
	for i := range w.slots {
		w.release(i)
	}
	w.awaitingCenter = false
}

// fill loads empty slots. While the center is still awaited only the center
// is kept; Settle backfills the rest.
func (w *Window) fill() {
	if w.awaitingCenter {
		if w.slots[CenterSlot] == nil {
			w.slots[CenterSlot] = w.create(w.ring.Walk())
		}
		return
	}
	w.Backfill()
}

func (w *Window) create(c Cursor) *MediaHandle {
	n := c.Node()
	return w.factory.Create(w.ctx, n.Item, w.bounds)
}

func (w *Window) release(i int) {
	if h := w.slots[i]; h != nil {
		h.Release()
		w.slots[i] = nil
	}
}
