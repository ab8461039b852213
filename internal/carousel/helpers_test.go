package carousel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://reel.test"

var testBounds = Bounds{MaxWidth: 1824, MaxHeight: 1026}

// fakeFetcher serves a tiny PNG for every URL. Items listed in fail error out;
// when gated, every fetch waits for the gate to open.
type fakeFetcher struct {
	mu      sync.Mutex
	fail    map[string]bool
	gate    chan struct{}
	fetched []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{fail: make(map[string]bool)}
}

func (f *fakeFetcher) FetchMedia(ctx context.Context, url string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	gate := f.gate
	id := itemIDFromURL(url)
	f.fetched = append(f.fetched, id)
	failing := f.fail[id]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
	if failing {
		return nil, "", errors.New("404 not found")
	}
	if strings.HasPrefix(id, "vid") {
		return io.NopCloser(bytes.NewReader([]byte("\x00\x00\x00\x18ftypmp42"))), "video/mp4", nil
	}
	return io.NopCloser(bytes.NewReader(testPNG)), "image/png", nil
}

func (f *fakeFetcher) failItem(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[id] = true
}

func itemIDFromURL(url string) string {
	path := strings.TrimPrefix(url, testBaseURL+"/main/img/")
	id, _, _ := strings.Cut(path, "/")
	return id
}

var testPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

func makeItems(ids ...string) []*domain.Item {
	items := make([]*domain.Item, len(ids))
	for i, id := range ids {
		mime := "image/jpeg"
		if strings.HasPrefix(id, "vid") {
			mime = "video/mp4"
		}
		items[i] = &domain.Item{ID: id, Name: id + ".jpg", MimeType: mime}
	}
	return items
}

// waitSettled blocks until h has settled
func waitSettled(t *testing.T, h *MediaHandle) {
	t.Helper()
	require.NotNil(t, h)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-h.Done():
	case <-ctx.Done():
		t.Fatalf("media handle for %s never settled", h.Item.ID)
	}
}

// slotIDs returns the item id of each slot, "" for empty slots
func slotIDs(w *Window) []string {
	slots := w.Slots()
	ids := make([]string, len(slots))
	for i, h := range slots {
		if h != nil {
			ids[i] = h.Item.ID
		}
	}
	return ids
}

var testLabels = domain.LabelSettings{
	Pick: []domain.LabelOption{
		{Value: "pick", Label: "Pick", Shortcut: "p"},
		{Value: "reject", Label: "Reject", Shortcut: "x"},
	},
	Color: []domain.LabelOption{
		{Value: "red", Label: "Red", Shortcut: "1"},
		{Value: "green", Label: "Green", Shortcut: "3"},
	},
}

// fakeActions records action calls and fails on demand
type fakeActions struct {
	err   error
	calls []string
}

func (f *fakeActions) record(action string) error {
	f.calls = append(f.calls, action)
	return f.err
}

func (f *fakeActions) SetRating(_ context.Context, _ []string, _ int) error {
	return f.record(domain.ActionSetRating)
}

func (f *fakeActions) SetPickLabel(_ context.Context, _ []string, _ domain.PickLabel) error {
	return f.record(domain.ActionSetPickLabel)
}

func (f *fakeActions) SetColorLabel(_ context.Context, _ []string, _ domain.ColorLabel) error {
	return f.record(domain.ActionSetColorLabel)
}

func (f *fakeActions) SetTags(_ context.Context, _ []string, _ []string) error {
	return f.record(domain.ActionSetTags)
}
