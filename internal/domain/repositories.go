package domain

import (
	"context"
	"io"
)

// Action names understood by the image-set actions endpoint
const (
	ActionSetRating     = "set_rating"
	ActionSetPickLabel  = "set_pick_label"
	ActionSetColorLabel = "set_color_label"
	ActionSetTags       = "set_tags"
)

// MediaFetcher opens the byte stream behind a media download URL
type MediaFetcher interface {
	// FetchMedia returns the body and its content type.
	// The caller closes the body.
	FetchMedia(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// ActionRepository forwards item edits to the server
type ActionRepository interface {
	SetRating(ctx context.Context, itemIDs []string, value int) error
	SetPickLabel(ctx context.Context, itemIDs []string, value PickLabel) error
	SetColorLabel(ctx context.Context, itemIDs []string, value ColorLabel) error
	SetTags(ctx context.Context, itemIDs []string, tagIDs []string) error
}

// MetadataRepository loads raw metadata ("Group:Key" -> value) for one item
type MetadataRepository interface {
	GetMetadata(ctx context.Context, itemID string) (map[string]any, error)
}

// DirectoryRepository lists the items of a directory in display order
type DirectoryRepository interface {
	GetDirectory(ctx context.Context, dirID string) (*Directory, []*Item, error)
}

// TagRepository loads the tag catalog tree
type TagRepository interface {
	GetTags(ctx context.Context) ([]TagNode, error)
}

// TagNode is a catalog entry as served by the backend, with nested children
type TagNode struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Subtags []TagNode `json:"subtags,omitempty"`
}
