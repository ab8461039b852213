package carousel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	// DefaultViewportScale is the share of the viewport a media item may fill
	DefaultViewportScale = 0.95

	// videoProbeBytes is how much of a video must arrive before it counts as playable
	videoProbeBytes = 64 * 1024

	// maxImageBytes caps a single downloaded image
	maxImageBytes = 64 << 20
)

// LoadState is the lifecycle tag of a media handle
type LoadState int

const (
	LoadLoading LoadState = iota
	LoadReady
	LoadFailed
)

// String returns a human-readable representation of the load state
func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Bounds is the bounding box media is downloaded to fit in
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

// BoundsForViewport derives the download bounding box from the viewport size.
// Computed once per session, not per item.
func BoundsForViewport(width, height int, scale float64) Bounds {
	if scale <= 0 || scale > 1 {
		scale = DefaultViewportScale
	}
	return Bounds{
		MaxWidth:  int(math.Floor(scale * float64(width))),
		MaxHeight: int(math.Floor(scale * float64(height))),
	}
}

// MediaHandle is an asynchronously loading media resource bound to a URL.
// The result fields are written once by the loader before done is closed and
// are only read after done is closed, so no lock is needed.
type MediaHandle struct {
	Item *domain.Item
	Kind domain.MediaKind
	URL  string

	cancel context.CancelFunc
	done   chan struct{}

	data        []byte
	contentType string
	format      string
	width       int
	height      int
	err         error
}

// Done is closed once the handle has settled (ready or failed)
func (h *MediaHandle) Done() <-chan struct{} { return h.done }

// State returns Loading until the load settles, then Ready or Failed
func (h *MediaHandle) State() LoadState {
	select {
	case <-h.done:
		if h.err != nil {
			return LoadFailed
		}
		return LoadReady
	default:
		return LoadLoading
	}
}

// Wait blocks until the handle settles or ctx is done.
// It returns the load error, if any.
func (h *MediaHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the load error once settled
func (h *MediaHandle) Err() error {
	if h.State() == LoadLoading {
		return nil
	}
	return h.err
}

// Data returns the loaded bytes: the whole image, or the first chunk of a video
func (h *MediaHandle) Data() []byte {
	if h.State() != LoadReady {
		return nil
	}
	return h.data
}

// ContentType returns the served content type once ready
func (h *MediaHandle) ContentType() string {
	if h.State() != LoadReady {
		return ""
	}
	return h.contentType
}

// Dimensions returns the decoded pixel size of a ready image (0x0 for videos)
func (h *MediaHandle) Dimensions() (width, height int) {
	if h.State() != LoadReady {
		return 0, 0
	}
	return h.width, h.height
}

// Format returns the decoded image format ("jpeg", "png", ...)
func (h *MediaHandle) Format() string {
	if h.State() != LoadReady {
		return ""
	}
	return h.format
}

// Release drops interest in the resource. An in-flight download is cancelled.
func (h *MediaHandle) Release() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Factory materializes media handles for items
type Factory struct {
	baseURL string
	fetcher domain.MediaFetcher
	logger  *slog.Logger
}

// NewFactory creates a media factory that downloads from baseURL
func NewFactory(baseURL string, fetcher domain.MediaFetcher, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		logger:  logger,
	}
}

// Classify decides which resource type an item needs
func (f *Factory) Classify(item *domain.Item) domain.MediaKind {
	return item.Kind()
}

// URLFor returns the download URL of item sized to fit maxWidth x maxHeight
func (f *Factory) URLFor(item *domain.Item, maxWidth, maxHeight int) string {
	query := url.Values{}
	query.Set("maxw", strconv.Itoa(maxWidth))
	query.Set("maxh", strconv.Itoa(maxHeight))
	return fmt.Sprintf("%s?%s", f.FullURL(item), query.Encode())
}

// FullURL returns the unscaled download URL of item
func (f *Factory) FullURL(item *domain.Item) string {
	return fmt.Sprintf("%s/main/img/%s/download", f.baseURL, url.PathEscape(item.ID))
}

// Create allocates a handle for item and starts loading it.
// The handle is returned in the Loading state; completion is signalled on Done.
func (f *Factory) Create(ctx context.Context, item *domain.Item, b Bounds) *MediaHandle {
	loadCtx, cancel := context.WithCancel(ctx)
	h := &MediaHandle{
		Item:   item,
		Kind:   f.Classify(item),
		URL:    f.URLFor(item, b.MaxWidth, b.MaxHeight),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	f.logger.Debug("creating media handle", "itemID", item.ID, "kind", h.Kind, "url", h.URL)

	go f.load(loadCtx, h)
	return h
}

func (f *Factory) load(ctx context.Context, h *MediaHandle) {
	defer close(h.done)
	defer h.cancel()

	body, contentType, err := f.fetcher.FetchMedia(ctx, h.URL)
	if err != nil {
		h.err = f.loadError(h, err)
		return
	}
	defer body.Close()

	h.contentType = contentType

	switch h.Kind {
	case domain.MediaKindVideo:
		h.err = f.probeVideo(h, body)
	default:
		h.err = f.decodeImage(h, body)
	}
	if h.err != nil {
		h.err = f.loadError(h, h.err)
	}
}

// probeVideo reads the first chunk; a video that delivers bytes can start playing
func (f *Factory) probeVideo(h *MediaHandle, body io.Reader) error {
	buf := make([]byte, videoProbeBytes)
	n, err := io.ReadFull(body, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return errors.New("empty video stream")
		}
		return err
	}
	h.data = buf[:n]
	return nil
}

func (f *Factory) decodeImage(h *MediaHandle, body io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(body, maxImageBytes))
	if err != nil {
		return err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	h.data = data
	h.format = format
	h.width = cfg.Width
	h.height = cfg.Height
	return nil
}

func (f *Factory) loadError(h *MediaHandle, err error) error {
	if !errors.Is(err, context.Canceled) {
		f.logger.Warn("media load failed", "itemID", h.Item.ID, "url", h.URL, "error", err)
	}
	return &domain.MediaLoadError{ItemID: h.Item.ID, URL: h.URL, Err: err}
}
