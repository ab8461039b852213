package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrEmptySet indicates a carousel was opened on an empty item list
	ErrEmptySet = errors.New("cannot open carousel on an empty item set")

	// ErrItemNotFound indicates the requested item does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrServerOffline indicates the workflow server is unreachable
	ErrServerOffline = errors.New("workflow server is unreachable")

	// ErrAuthFailed indicates the server rejected the credentials
	ErrAuthFailed = errors.New("authentication failed")

	// ErrInvalidRating indicates a rating outside 0-5
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrUnknownLabel indicates a label value that is not configured
	ErrUnknownLabel = errors.New("unknown label value")

	// ErrNotReady indicates the carousel is still loading its first item
	ErrNotReady = errors.New("carousel is not ready")

	// ErrNavigationSuspended indicates a sub-dialog currently owns input
	ErrNavigationSuspended = errors.New("navigation is suspended while a dialog is open")

	// ErrSessionClosed indicates the carousel session has been closed
	ErrSessionClosed = errors.New("carousel session is closed")
)

// MediaLoadError reports a media resource that failed to load.
// It is non-fatal: the slot stays broken until it is re-created.
type MediaLoadError struct {
	ItemID string
	URL    string
	Err    error
}

func (e *MediaLoadError) Error() string {
	return fmt.Sprintf("could not load media for item %s: %v", e.ItemID, e.Err)
}

func (e *MediaLoadError) Unwrap() error { return e.Err }

// BackendActionError reports a failed mutation call
type BackendActionError struct {
	Action  string
	Status  int
	Message string
	Err     error
}

func (e *BackendActionError) Error() string {
	return fmt.Sprintf("could not execute action %q: %s", e.Action, e.Message)
}

func (e *BackendActionError) Unwrap() error { return e.Err }

// MetadataLoadError reports a failed on-demand metadata fetch
type MetadataLoadError struct {
	ItemID string
	Err    error
}

func (e *MetadataLoadError) Error() string {
	return fmt.Sprintf("could not load metadata for item %s: %v", e.ItemID, e.Err)
}

func (e *MetadataLoadError) Unwrap() error { return e.Err }
