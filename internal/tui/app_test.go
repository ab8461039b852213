package tui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

type pngFetcher struct{}

func (pngFetcher) FetchMedia(context.Context, string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(testPNG)), "image/png", nil
}

type recordingActions struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (a *recordingActions) record(action string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, action)
	return a.err
}

func (a *recordingActions) SetRating(context.Context, []string, int) error {
	return a.record(domain.ActionSetRating)
}

func (a *recordingActions) SetPickLabel(context.Context, []string, domain.PickLabel) error {
	return a.record(domain.ActionSetPickLabel)
}

func (a *recordingActions) SetColorLabel(context.Context, []string, domain.ColorLabel) error {
	return a.record(domain.ActionSetColorLabel)
}

func (a *recordingActions) SetTags(context.Context, []string, []string) error {
	return a.record(domain.ActionSetTags)
}

type failingMetadata struct{}

func (failingMetadata) GetMetadata(_ context.Context, itemID string) (map[string]any, error) {
	return nil, &domain.MetadataLoadError{ItemID: itemID, Err: errors.New("timeout")}
}

type staticMetadata map[string]any

func (s staticMetadata) GetMetadata(context.Context, string) (map[string]any, error) {
	return s, nil
}

type staticTags []domain.TagNode

func (s staticTags) GetTags(context.Context) ([]domain.TagNode, error) { return s, nil }

var testLabels = domain.LabelSettings{
	Pick: []domain.LabelOption{
		{Value: "pick", Label: "Pick", Shortcut: "p"},
		{Value: "reject", Label: "Reject", Shortcut: "x"},
	},
	Color: []domain.LabelOption{
		{Value: "red", Label: "Red", Shortcut: "1"},
	},
}

func newTestModel(t *testing.T, actions *recordingActions, ids ...string) (Model, []*domain.Item) {
	t.Helper()
	items := make([]*domain.Item, len(ids))
	for i, id := range ids {
		items[i] = &domain.Item{ID: id, Name: id + ".png", MimeType: "image/png"}
	}

	factory := carousel.NewFactory("http://reel.test", pngFetcher{}, nil)
	s, err := carousel.Open(context.Background(), items, items[0], carousel.Options{
		Factory: factory,
		Actions: actions,
		Labels:  testLabels,
		Bounds:  carousel.Bounds{MaxWidth: 800, MaxHeight: 600},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	svc := tags.NewService(staticTags{
		{ID: "1", Name: "Sunset"},
		{ID: "2", Name: "Places", Subtags: []domain.TagNode{{ID: "3", Name: "Beach"}}},
	}, nil, nil)
	_, err = svc.Load(context.Background(), false)
	require.NoError(t, err)

	m := NewModel(s, ModelOptions{Factory: factory, TagSvc: svc, Labels: testLabels})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, items
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle feeds every window handle's completion back into the model until
// the window stops changing
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for round := 0; round < 3; round++ {
		for _, h := range m.Session.Window().Slots() {
			if h == nil {
				continue
			}
			select {
			case <-h.Done():
			case <-time.After(2 * time.Second):
				t.Fatalf("media for %s never settled", h.Item.ID)
			}
			m = update(t, m, MediaSettledMsg{Handle: h})
		}
	}
	return m
}

// runCmd executes cmd and feeds its result back, expanding batches
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = runCmd(t, m, c)
		}
		return m
	default:
		return update(t, m, msg)
	}
}

func TestModelOpensAndBecomesReady(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A", "B", "C")
	assert.Equal(t, carousel.StateOpening, m.Session.State())
	assert.Contains(t, m.View(), "Opening...")

	m = settle(t, m)
	assert.Equal(t, carousel.StateReady, m.Session.State())
	assert.False(t, m.Session.Loading())
	assert.Contains(t, m.View(), "A.png")
	assert.Contains(t, m.View(), "1 / 3")
}

func TestModelNavigation(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A", "B", "C")

	// still opening: the step is refused
	m, _ = press(t, m, "l")
	assert.Equal(t, "A", m.Session.Current().Item.ID)
	assert.Equal(t, domain.ErrNotReady.Error(), m.StatusMsg)
	assert.False(t, m.StatusIsErr)

	m = settle(t, m)
	m, _ = press(t, m, "l")
	assert.Equal(t, "B", m.Session.Current().Item.ID)
	m, _ = press(t, m, "h")
	m, _ = press(t, m, "h")
	assert.Equal(t, "C", m.Session.Current().Item.ID)
	m, _ = press(t, m, "g")
	assert.Equal(t, "A", m.Session.Current().Item.ID)
	m, _ = press(t, m, "G")
	assert.Equal(t, "C", m.Session.Current().Item.ID)
}

func TestModelRating(t *testing.T) {
	actions := &recordingActions{}
	m, items := newTestModel(t, actions, "A", "B")
	m = settle(t, m)

	m, cmd := press(t, m, "4")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.PendingEdits)
	assert.Zero(t, items[0].Rating, "applied only once the server answered")

	m = runCmd(t, m, cmd)
	assert.Zero(t, m.PendingEdits)
	assert.Equal(t, 4, items[0].Rating)
	assert.Equal(t, 1, m.Session.Histogram().Count(4))
	assert.Contains(t, m.StatusMsg, "Rated A.png")
	assert.Equal(t, []string{domain.ActionSetRating}, actions.calls)
}

func TestModelRatingFailure(t *testing.T) {
	actions := &recordingActions{err: errors.New("connection reset")}
	m, items := newTestModel(t, actions, "A", "B")
	m = settle(t, m)

	m, cmd := press(t, m, "5")
	m = runCmd(t, m, cmd)
	assert.Zero(t, items[0].Rating)
	assert.Zero(t, m.Session.Histogram().Total)
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "saving rating")
}

func TestModelPickLabelDialog(t *testing.T) {
	m, items := newTestModel(t, &recordingActions{}, "A", "B")
	m = settle(t, m)

	m, _ = press(t, m, "p")
	require.True(t, m.LabelModal.IsVisible())
	top, ok := m.Session.Focus().Top()
	require.True(t, ok)
	assert.Equal(t, carousel.DialogPickLabel, top)

	// navigation keys belong to the dialog
	m, _ = press(t, m, "l")
	assert.Equal(t, "A", m.Session.Current().Item.ID)

	m, cmd := press(t, m, "x")
	assert.False(t, m.LabelModal.IsVisible())
	assert.True(t, m.Session.Focus().Empty())

	m = runCmd(t, m, cmd)
	assert.Equal(t, domain.PickLabel("reject"), items[0].PickLabel)
	assert.Contains(t, m.StatusMsg, "reject")
}

func TestModelLabelDialogCancel(t *testing.T) {
	actions := &recordingActions{}
	m, _ := newTestModel(t, actions, "A", "B")
	m = settle(t, m)

	m, _ = press(t, m, "c")
	m, cmd := press(t, m, "esc")
	assert.Nil(t, cmd)
	assert.False(t, m.LabelModal.IsVisible())
	assert.True(t, m.Session.Focus().Empty())
	assert.Empty(t, actions.calls)
}

func TestModelTagDialog(t *testing.T) {
	m, items := newTestModel(t, &recordingActions{}, "A", "B")
	m = settle(t, m)

	m, _ = press(t, m, "t")
	require.True(t, m.TagModal.IsVisible())

	m, _ = press(t, m, "sun")
	require.NotEmpty(t, m.TagModal.Suggestions())
	assert.Equal(t, "Sunset", m.TagModal.Suggestions()[0].Name)

	m, _ = press(t, m, "tab")
	m, cmd := press(t, m, "enter")
	assert.False(t, m.TagModal.IsVisible())
	assert.True(t, m.Session.Focus().Empty())

	m = runCmd(t, m, cmd)
	assert.Equal(t, []string{"Sunset"}, items[0].TagNames())
}

func TestModelQuitClosesSession(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A")
	m = settle(t, m)

	m, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, carousel.StateClosed, m.Session.State())
}

func TestModelHelp(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A")
	m, _ = press(t, m, "?")
	assert.Equal(t, StateHelp, m.State)
	assert.Contains(t, m.View(), "NAVIGATION")

	m, _ = press(t, m, "l")
	assert.Equal(t, StateCarousel, m.State)
}

func TestModelMetadataPanel(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A", "B")
	m.Metadata = staticMetadata{"EXIF:Make": "Fujifilm", "Width": 6000}
	m = settle(t, m)

	m, cmd := press(t, m, "i")
	require.True(t, m.MetaPanel.IsVisible())
	assert.Contains(t, m.MetaPanel.View(), "Loading...")

	m = runCmd(t, m, cmd)
	view := m.MetaPanel.View()
	assert.NotContains(t, view, "Loading...")
	assert.Contains(t, view, "Fujifilm")
}

func TestModelMetadataLoadFailure(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A", "B")
	m.Metadata = failingMetadata{}
	m = settle(t, m)

	m, cmd := press(t, m, "i")
	require.NotNil(t, cmd)
	m = runCmd(t, m, cmd)

	assert.True(t, m.MetaPanel.IsVisible())
	assert.NotContains(t, m.MetaPanel.View(), "Loading...")
	assert.Contains(t, m.MetaPanel.View(), "No metadata")
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "loading metadata")

	// the carousel keeps working
	m, _ = press(t, m, "l")
	assert.Equal(t, "B", m.Session.Current().Item.ID)
}

func TestModelFilterWithoutMetadataSource(t *testing.T) {
	m, _ := newTestModel(t, &recordingActions{}, "A", "B")
	m = settle(t, m)

	m, _ = press(t, m, "/")
	assert.False(t, m.MetaPanel.IsVisible())
	assert.False(t, m.MetaPanel.Filtering())

	m, _ = press(t, m, "l")
	assert.Equal(t, "B", m.Session.Current().Item.ID)
}
