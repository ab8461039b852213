package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/metadata"
	"github.com/mmcdole/reel/internal/tags"
)

// Command factories for async operations

// MediaOpener starts an external viewer (implemented by *player.Launcher)
type MediaOpener interface {
	Launch(url string, kind domain.MediaKind) error
}

// WaitMediaCmd blocks until h settles. Released handles settle too, so the
// command always returns.
func WaitMediaCmd(h *carousel.MediaHandle) tea.Cmd {
	return func() tea.Msg {
		<-h.Done()
		return MediaSettledMsg{Handle: h}
	}
}

// SendEditCmd forwards a prepared edit to the server
func SendEditCmd(s *carousel.Session, e carousel.Edit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return EditResultMsg{Edit: e, Err: s.Send(ctx, e)}
	}
}

// LoadTagsCmd loads the tag catalog, from the cache unless reload is set
func LoadTagsCmd(svc *tags.Service, reload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		catalog, err := svc.Load(ctx, reload)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading tags"}
		}
		return TagsLoadedMsg{Count: catalog.Len(), Reloaded: reload}
	}
}

// LoadMetadataCmd fetches and groups the metadata of an item
func LoadMetadataCmd(repo domain.MetadataRepository, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		raw, err := repo.GetMetadata(ctx, itemID)
		if err != nil {
			return MetadataLoadedMsg{ItemID: itemID, Err: err}
		}
		return MetadataLoadedMsg{ItemID: itemID, Groups: metadata.GroupBy(raw)}
	}
}

// LaunchCmd opens the full-size media of item in the external viewer
func LaunchCmd(opener MediaOpener, url string, item *domain.Item) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Launch(url, item.Kind()); err != nil {
			return ErrMsg{Err: err, Context: "opening viewer"}
		}
		return LaunchedMsg{Item: item}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
