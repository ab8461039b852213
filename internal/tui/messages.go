package tui

import (
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metadata"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// MediaSettledMsg signals that a media handle finished loading (ready or failed)
type MediaSettledMsg struct {
	Handle *carousel.MediaHandle
}

// EditResultMsg carries the server's answer to an edit.
// The edit is applied to the item only when Err is nil.
type EditResultMsg struct {
	Edit carousel.Edit
	Err  error
}

// TagsLoadedMsg signals that the tag catalog is available
type TagsLoadedMsg struct {
	Count    int
	Reloaded bool
}

// MetadataLoadedMsg carries grouped metadata of one item, or the error
// that prevented loading it
type MetadataLoadedMsg struct {
	ItemID string
	Groups []metadata.Group
	Err    error
}

// LaunchedMsg signals that the external viewer was started
type LaunchedMsg struct {
	Item *domain.Item
}

// StatusMsg displays a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// TickMsg is sent periodically for animations
type TickMsg struct{}
