package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// Annotator applies edits to a single item. The server is called first and the
// in-memory item is only changed after it succeeded, so a failed call leaves
// the item and the histogram untouched.
type Annotator struct {
	actions   domain.ActionRepository
	histogram *Histogram
	labels    domain.LabelSettings
	logger    *slog.Logger
	onApply   func(Edit)
}

// NewAnnotator creates an annotator that patches histogram on rating changes
func NewAnnotator(
	actions domain.ActionRepository,
	histogram *Histogram,
	labels domain.LabelSettings,
	logger *slog.Logger,
) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		actions:   actions,
		histogram: histogram,
		labels:    labels,
		logger:    logger,
	}
}

// Edit is one validated change to an item. Send forwards it to the server
// and Apply writes it to the item; callers that cannot block run Send on
// another goroutine and Apply once it returned nil.
type Edit struct {
	Action string
	Item   *domain.Item
	Rating int
	Pick   domain.PickLabel
	Color  domain.ColorLabel
	Tags   []domain.Tag
}

// RatingEdit builds a rating change (0 clears the rating)
func (a *Annotator) RatingEdit(item *domain.Item, value int) (Edit, error) {
	if value < 0 || value > domain.MaxRating {
		return Edit{}, domain.ErrInvalidRating
	}
	return Edit{Action: domain.ActionSetRating, Item: item, Rating: value}, nil
}

// PickEdit builds a pick label change (empty value clears it)
func (a *Annotator) PickEdit(item *domain.Item, value domain.PickLabel) (Edit, error) {
	if !a.labels.HasPick(value) {
		return Edit{}, domain.ErrUnknownLabel
	}
	return Edit{Action: domain.ActionSetPickLabel, Item: item, Pick: value}, nil
}

// ColorEdit builds a color label change (empty value clears it)
func (a *Annotator) ColorEdit(item *domain.Item, value domain.ColorLabel) (Edit, error) {
	if !a.labels.HasColor(value) {
		return Edit{}, domain.ErrUnknownLabel
	}
	return Edit{Action: domain.ActionSetColorLabel, Item: item, Color: value}, nil
}

// TagsEdit builds a tag set replacement. Duplicate tags are dropped, order kept.
func (a *Annotator) TagsEdit(item *domain.Item, tags []domain.Tag) Edit {
	return Edit{Action: domain.ActionSetTags, Item: item, Tags: uniqueTags(tags)}
}

// Send forwards e to the server. It only reads e and is safe to call from
// any goroutine.
func (a *Annotator) Send(ctx context.Context, e Edit) error {
	ids := []string{e.Item.ID}
	var err error
	switch e.Action {
	case domain.ActionSetRating:
		err = a.actions.SetRating(ctx, ids, e.Rating)
	case domain.ActionSetPickLabel:
		err = a.actions.SetPickLabel(ctx, ids, e.Pick)
	case domain.ActionSetColorLabel:
		err = a.actions.SetColorLabel(ctx, ids, e.Color)
	case domain.ActionSetTags:
		tagIDs := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			tagIDs[i] = t.ID
		}
		err = a.actions.SetTags(ctx, ids, tagIDs)
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if err != nil {
		return a.fail(e.Action, e.Item, err)
	}
	return nil
}

// Apply writes an accepted edit to the item and patches the histogram
func (a *Annotator) Apply(e Edit) {
	item := e.Item
	switch e.Action {
	case domain.ActionSetRating:
		old := item.Rating
		item.Rating = e.Rating
		if a.histogram != nil {
			a.histogram.Patch(old, e.Rating)
		}
		a.logger.Info("rating set", "itemID", item.ID, "from", old, "to", e.Rating)
	case domain.ActionSetPickLabel:
		item.PickLabel = e.Pick
		a.logger.Info("pick label set", "itemID", item.ID, "value", e.Pick)
	case domain.ActionSetColorLabel:
		item.ColorLabel = e.Color
		a.logger.Info("color label set", "itemID", item.ID, "value", e.Color)
	case domain.ActionSetTags:
		item.Tags = e.Tags
		a.logger.Info("tags set", "itemID", item.ID, "count", len(e.Tags))
	default:
		return
	}
	if a.onApply != nil {
		a.onApply(e)
	}
}

// OnApply registers fn to run after every applied edit
func (a *Annotator) OnApply(fn func(Edit)) {
	a.onApply = fn
}

// Commit sends e and applies it once the server accepted it
func (a *Annotator) Commit(ctx context.Context, e Edit) error {
	if err := a.Send(ctx, e); err != nil {
		return err
	}
	a.Apply(e)
	return nil
}

// SetRating rates item with value (0 clears the rating)
func (a *Annotator) SetRating(ctx context.Context, item *domain.Item, value int) error {
	e, err := a.RatingEdit(item, value)
	if err != nil {
		return err
	}
	return a.Commit(ctx, e)
}

// SetPickLabel sets or clears (empty value) the pick label
func (a *Annotator) SetPickLabel(ctx context.Context, item *domain.Item, value domain.PickLabel) error {
	e, err := a.PickEdit(item, value)
	if err != nil {
		return err
	}
	return a.Commit(ctx, e)
}

// SetColorLabel sets or clears (empty value) the color label
func (a *Annotator) SetColorLabel(ctx context.Context, item *domain.Item, value domain.ColorLabel) error {
	e, err := a.ColorEdit(item, value)
	if err != nil {
		return err
	}
	return a.Commit(ctx, e)
}

// SetTags replaces the tag set of item
func (a *Annotator) SetTags(ctx context.Context, item *domain.Item, tags []domain.Tag) error {
	return a.Commit(ctx, a.TagsEdit(item, tags))
}

func (a *Annotator) fail(action string, item *domain.Item, err error) error {
	a.logger.Error("action failed", "action", action, "itemID", item.ID, "error", err)

	var actionErr *domain.BackendActionError
	if errors.As(err, &actionErr) {
		return err
	}
	return &domain.BackendActionError{Action: action, Message: err.Error(), Err: err}
}

func uniqueTags(tags []domain.Tag) []domain.Tag {
	seen := make(map[string]bool, len(tags))
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
