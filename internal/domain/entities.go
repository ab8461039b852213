package domain

import (
	"fmt"
	"strings"
)

// MediaKind distinguishes the resource type materialized for an item
type MediaKind int

const (
	MediaKindImage MediaKind = iota
	MediaKindVideo
)

// String returns a human-readable representation of the media kind
func (k MediaKind) String() string {
	switch k {
	case MediaKindImage:
		return "image"
	case MediaKindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// MaxRating is the highest star rating an item can carry (0 = unrated)
const MaxRating = 5

// PickLabel is a pick/reject flag. The empty value means no label is set.
type PickLabel string

// ColorLabel is a color flag. The empty value means no label is set.
type ColorLabel string

// Tag is a node of the hierarchical tag catalog
type Tag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"` // slash-joined path from the catalog root
}

// Attachment is a sidecar file (raw, xmp, ...) belonging to an item
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"attachment_type"`
}

// Item is one image or video of the working set.
// Items are shared by pointer between the hosting list and an open carousel,
// so an edit applied through the carousel is visible to both.
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	MimeType    string       `json:"mime_type"`
	Rating      int          `json:"rating"` // 0-5, 0 = unrated
	PickLabel   PickLabel    `json:"pick_label,omitempty"`
	ColorLabel  ColorLabel   `json:"color_label,omitempty"`
	Tags        []Tag        `json:"tags"`
	Attachments []Attachment `json:"attachments"`
}

// Kind classifies the item: video iff the mime type starts with "video/"
func (i *Item) Kind() MediaKind {
	if strings.HasPrefix(i.MimeType, "video/") {
		return MediaKindVideo
	}
	return MediaKindImage
}

// Stars renders the rating as filled/empty stars (e.g., "★★★☆☆")
func (i *Item) Stars() string {
	r := i.Rating
	if r < 0 {
		r = 0
	}
	if r > MaxRating {
		r = MaxRating
	}
	return strings.Repeat("★", r) + strings.Repeat("☆", MaxRating-r)
}

// TagNames returns the full names of the item's tags in order
func (i *Item) TagNames() []string {
	names := make([]string, len(i.Tags))
	for idx, t := range i.Tags {
		if t.FullName != "" {
			names[idx] = t.FullName
		} else {
			names[idx] = t.Name
		}
	}
	return names
}

// String implements fmt.Stringer for log output
func (i *Item) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.ID)
}

// Directory is a folder of the workflow library
type Directory struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	ParentID string `json:"parent_id,omitempty"`
}

// LabelOption describes one selectable pick or color label
type LabelOption struct {
	Value    string `mapstructure:"value" json:"value"`
	Label    string `mapstructure:"label" json:"label"`
	Shortcut string `mapstructure:"shortcut" json:"shortcut"`
	Icon     string `mapstructure:"icon" json:"icon"`
}

// LabelSettings is the fixed set of selectable labels supplied by configuration
type LabelSettings struct {
	Pick  []LabelOption `mapstructure:"pick"`
	Color []LabelOption `mapstructure:"color"`
}

// HasPick reports whether value is a configured pick label (empty clears the label)
func (s LabelSettings) HasPick(value PickLabel) bool {
	return value == "" || hasOption(s.Pick, string(value))
}

// HasColor reports whether value is a configured color label (empty clears the label)
func (s LabelSettings) HasColor(value ColorLabel) bool {
	return value == "" || hasOption(s.Color, string(value))
}

func hasOption(opts []LabelOption, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
