package domain

import (
	"fmt"
	"strings"
)

// NoLabel is how an unlabeled item is named in a label filter
const NoLabel = "none"

// ItemFilter narrows a directory listing to the items a carousel opens on.
// Each dimension is a set of accepted values; an empty set accepts all.
// An item passes when it passes every dimension.
type ItemFilter struct {
	Stars  map[int]bool
	Picks  map[PickLabel]bool
	Colors map[ColorLabel]bool
}

// NewItemFilter validates stars against 0..MaxRating and label values against
// labels. The label value NoLabel selects items without that label.
func NewItemFilter(stars []int, picks, colors []string, labels LabelSettings) (ItemFilter, error) {
	var f ItemFilter

	for _, s := range stars {
		if s < 0 || s > MaxRating {
			return ItemFilter{}, fmt.Errorf("%w: %d", ErrInvalidRating, s)
		}
		if f.Stars == nil {
			f.Stars = make(map[int]bool)
		}
		f.Stars[s] = true
	}

	for _, p := range picks {
		v := PickLabel(labelFilterValue(p))
		if !labels.HasPick(v) {
			return ItemFilter{}, fmt.Errorf("%w: pick %q", ErrUnknownLabel, p)
		}
		if f.Picks == nil {
			f.Picks = make(map[PickLabel]bool)
		}
		f.Picks[v] = true
	}

	for _, c := range colors {
		v := ColorLabel(labelFilterValue(c))
		if !labels.HasColor(v) {
			return ItemFilter{}, fmt.Errorf("%w: color %q", ErrUnknownLabel, c)
		}
		if f.Colors == nil {
			f.Colors = make(map[ColorLabel]bool)
		}
		f.Colors[v] = true
	}

	return f, nil
}

func labelFilterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, NoLabel) {
		return ""
	}
	return v
}

// IsZero reports whether the filter accepts every item
func (f ItemFilter) IsZero() bool {
	return len(f.Stars) == 0 && len(f.Picks) == 0 && len(f.Colors) == 0
}

// Match reports whether item passes the filter
func (f ItemFilter) Match(item *Item) bool {
	if len(f.Stars) > 0 && !f.Stars[item.Rating] {
		return false
	}
	if len(f.Picks) > 0 && !f.Picks[item.PickLabel] {
		return false
	}
	if len(f.Colors) > 0 && !f.Colors[item.ColorLabel] {
		return false
	}
	return true
}

// Apply returns the matching items in listing order. The items are shared,
// not copied.
func (f ItemFilter) Apply(items []*Item) []*Item {
	if f.IsZero() {
		return items
	}
	var out []*Item
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
