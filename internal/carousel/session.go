package carousel

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
)

// State is the lifecycle of an open carousel
type State int

const (
	StateClosed State = iota
	StateOpening
	StateReady
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Dialog names an edit sub-dialog layered over the carousel
type Dialog string

const (
	DialogPickLabel  Dialog = "pick_label"
	DialogColorLabel Dialog = "color_label"
	DialogTags       Dialog = "tags"
)

// FocusStack tracks which sub-dialogs hold input focus.
// Navigation is only allowed while the stack is empty.
type FocusStack struct {
	dialogs []Dialog
}

// Push gives focus to d
func (f *FocusStack) Push(d Dialog) { f.dialogs = append(f.dialogs, d) }

// Pop returns focus to whatever was below the top dialog
func (f *FocusStack) Pop() (Dialog, bool) {
	if len(f.dialogs) == 0 {
		return "", false
	}
	d := f.dialogs[len(f.dialogs)-1]
	f.dialogs = f.dialogs[:len(f.dialogs)-1]
	return d, true
}

// Top returns the focused dialog, if any
func (f *FocusStack) Top() (Dialog, bool) {
	if len(f.dialogs) == 0 {
		return "", false
	}
	return f.dialogs[len(f.dialogs)-1], true
}

// Empty reports whether no dialog holds focus
func (f *FocusStack) Empty() bool { return len(f.dialogs) == 0 }

// Options holds the collaborators of a session
type Options struct {
	Factory HandleFactory
	Actions domain.ActionRepository
	Labels  domain.LabelSettings
	Bounds  Bounds
	Logger  *slog.Logger

	// OnApply runs on the session goroutine after an accepted edit was
	// written to its item, e.g. to drop a saved copy of the listing.
	OnApply func(Edit)
}

// Session is one open carousel: Opening until the first item has loaded,
// then Ready until Close. A session is driven from a single goroutine.
type Session struct {
	ID string

	state     State
	ring      *Ring
	window    *Window
	histogram *Histogram
	annotator *Annotator
	focus     FocusStack

	cancel context.CancelFunc
	logger *slog.Logger
}

// Open builds the ring over items at start and starts loading the start item.
// An empty item list fails with domain.ErrEmptySet and no session is created.
func Open(ctx context.Context, items []*domain.Item, start *domain.Item, opts Options) (*Session, error) {
	ring, err := NewRing(items, start)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	logger = logger.With("session", id)

	sessCtx, cancel := context.WithCancel(ctx)
	histogram := NewHistogram(ring.Items())

	s := &Session{
		ID:        id,
		state:     StateOpening,
		ring:      ring,
		window:    NewWindow(sessCtx, opts.Factory, opts.Bounds, logger),
		histogram: histogram,
		annotator: NewAnnotator(opts.Actions, histogram, opts.Labels, logger),
		cancel:    cancel,
		logger:    logger,
	}
	s.annotator.OnApply(opts.OnApply)
	s.window.Initialize(ring)

	logger.Info("carousel opened", "items", ring.Len(), "start", ring.Current().Item.ID)
	return s, nil
}

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// Loading reports whether the current item is still loading; views render a
// spinner instead of the item while true.
func (s *Session) Loading() bool {
	if s.state != StateReady {
		return true
	}
	h := s.window.Current()
	return h == nil || h.State() == LoadLoading
}

// CanNavigate reports whether next/prev/first/last are accepted right now
func (s *Session) CanNavigate() bool {
	return s.state == StateReady && s.focus.Empty()
}

// Focus exposes the dialog focus stack
func (s *Session) Focus() *FocusStack { return &s.focus }

// Current returns the current ring node
func (s *Session) Current() Node { return s.ring.Current() }

// CurrentMedia returns the handle of the current item
func (s *Session) CurrentMedia() *MediaHandle { return s.window.Current() }

// Window returns the prefetch window
func (s *Session) Window() *Window { return s.window }

// Histogram returns the live rating histogram
func (s *Session) Histogram() *Histogram { return s.histogram }

// Len returns the size of the working set
func (s *Session) Len() int { return s.ring.Len() }

// Settle reports that h finished loading. The first settle of the center
// handle moves the session from Opening to Ready. Handles that have left
// the window are ignored and false is returned.
func (s *Session) Settle(h *MediaHandle) bool {
	if s.state == StateClosed {
		return false
	}
	if !s.window.Settle(h) {
		s.logger.Debug("ignoring media completion", "itemID", h.Item.ID)
		return false
	}
	if s.state == StateOpening && h == s.window.Current() {
		s.state = StateReady
		s.logger.Info("carousel ready", "itemID", h.Item.ID, "media", h.State())
	}
	return true
}

// AwaitReady blocks until the start item has loaded and the session is Ready.
// A failed load still makes the session Ready; the slot shows as broken.
func (s *Session) AwaitReady(ctx context.Context) error {
	for s.state == StateOpening {
		h := s.window.Current()
		if err := h.Wait(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		s.Settle(h)
	}
	if s.state == StateClosed {
		return domain.ErrSessionClosed
	}
	return nil
}

// Next steps forward and shifts the window
func (s *Session) Next() (Node, error) {
	if err := s.checkNavigation(); err != nil {
		return Node{}, err
	}
	n := s.ring.Next()
	s.window.ShiftForward()
	return n, nil
}

// Prev steps back and shifts the window
func (s *Session) Prev() (Node, error) {
	if err := s.checkNavigation(); err != nil {
		return Node{}, err
	}
	n := s.ring.Prev()
	s.window.ShiftBackward()
	return n, nil
}

// First jumps to the head of the ring and reloads the window around it
func (s *Session) First() (Node, error) {
	if err := s.checkNavigation(); err != nil {
		return Node{}, err
	}
	n := s.ring.First()
	s.window.Reanchor(s.ring)
	return n, nil
}

// Last jumps to the tail of the ring and reloads the window around it
func (s *Session) Last() (Node, error) {
	if err := s.checkNavigation(); err != nil {
		return Node{}, err
	}
	n := s.ring.Last()
	s.window.Reanchor(s.ring)
	return n, nil
}

// SetRating rates the current item
func (s *Session) SetRating(ctx context.Context, value int) error {
	item, err := s.editTarget()
	if err != nil {
		return err
	}
	return s.annotator.SetRating(ctx, item, value)
}

// SetPickLabel sets the pick label of the current item
func (s *Session) SetPickLabel(ctx context.Context, value domain.PickLabel) error {
	item, err := s.editTarget()
	if err != nil {
		return err
	}
	return s.annotator.SetPickLabel(ctx, item, value)
}

// SetColorLabel sets the color label of the current item
func (s *Session) SetColorLabel(ctx context.Context, value domain.ColorLabel) error {
	item, err := s.editTarget()
	if err != nil {
		return err
	}
	return s.annotator.SetColorLabel(ctx, item, value)
}

// SetTags replaces the tags of the current item
func (s *Session) SetTags(ctx context.Context, tags []domain.Tag) error {
	item, err := s.editTarget()
	if err != nil {
		return err
	}
	return s.annotator.SetTags(ctx, item, tags)
}

// RatingEdit prepares a rating change of the current item for Send and Apply
func (s *Session) RatingEdit(value int) (Edit, error) {
	item, err := s.editTarget()
	if err != nil {
		return Edit{}, err
	}
	return s.annotator.RatingEdit(item, value)
}

// PickEdit prepares a pick label change of the current item
func (s *Session) PickEdit(value domain.PickLabel) (Edit, error) {
	item, err := s.editTarget()
	if err != nil {
		return Edit{}, err
	}
	return s.annotator.PickEdit(item, value)
}

// ColorEdit prepares a color label change of the current item
func (s *Session) ColorEdit(value domain.ColorLabel) (Edit, error) {
	item, err := s.editTarget()
	if err != nil {
		return Edit{}, err
	}
	return s.annotator.ColorEdit(item, value)
}

// TagsEdit prepares a tag replacement on the current item
func (s *Session) TagsEdit(tags []domain.Tag) (Edit, error) {
	item, err := s.editTarget()
	if err != nil {
		return Edit{}, err
	}
	return s.annotator.TagsEdit(item, tags), nil
}

// Send forwards a prepared edit to the server; safe from any goroutine
func (s *Session) Send(ctx context.Context, e Edit) error {
	return s.annotator.Send(ctx, e)
}

// Apply writes an edit the server accepted to its item
func (s *Session) Apply(e Edit) { s.annotator.Apply(e) }

// Close drops every handle and ends the session
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.window.Clear()
	s.cancel()
	s.state = StateClosed
	s.focus = FocusStack{}
	s.logger.Info("carousel closed")
}

func (s *Session) checkNavigation() error {
	switch {
	case s.state == StateClosed:
		return domain.ErrSessionClosed
	case s.state != StateReady:
		return domain.ErrNotReady
	case !s.focus.Empty():
		return domain.ErrNavigationSuspended
	}
	return nil
}

func (s *Session) editTarget() (*domain.Item, error) {
	switch s.state {
	case StateClosed:
		return nil, domain.ErrSessionClosed
	case StateOpening:
		return nil, domain.ErrNotReady
	}
	return s.ring.Current().Item, nil
}
