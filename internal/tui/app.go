package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tags"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateCarousel ApplicationState = iota
	StateHelp
)

// Layout constants
const (
	ChromeHeight   = 2  // header + footer
	SidePanelWidth = 38 // histogram and metadata column
	MinCardWidth   = 30
)

// Model is the main Bubble Tea model: one carousel session plus its dialogs
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Session   *carousel.Session
	Factory   *carousel.Factory
	TagSvc    *tags.Service
	Metadata  domain.MetadataRepository
	Opener    MediaOpener
	Labels    domain.LabelSettings
	Directory *domain.Directory

	// UI Components
	LabelModal  components.LabelModal
	TagModal    components.TagModal
	MetaPanel   components.MetadataPanel
	labelDialog carousel.Dialog // which label LabelModal edits

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
	PendingEdits int

	// handles with a WaitMediaCmd in flight
	waiting map[*carousel.MediaHandle]bool
}

// ModelOptions holds the collaborators of the model besides the session
type ModelOptions struct {
	Factory   *carousel.Factory
	TagSvc    *tags.Service
	Metadata  domain.MetadataRepository
	Opener    MediaOpener
	Labels    domain.LabelSettings
	Directory *domain.Directory
}

// NewModel creates a model driving session
func NewModel(session *carousel.Session, opts ModelOptions) Model {
	var suggest components.SuggestFunc
	if opts.TagSvc != nil {
		suggest = opts.TagSvc.Suggest
	}
	return Model{
		State:      StateCarousel,
		Session:    session,
		Factory:    opts.Factory,
		TagSvc:     opts.TagSvc,
		Metadata:   opts.Metadata,
		Opener:     opts.Opener,
		Labels:     opts.Labels,
		Directory:  opts.Directory,
		LabelModal: components.NewLabelModal(),
		TagModal:   components.NewTagModal(suggest),
		MetaPanel:  components.NewMetadataPanel(),
		waiting:    make(map[*carousel.MediaHandle]bool),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.watchWindow(),
		TickCmd(100 * time.Millisecond),
	}
	if m.TagSvc != nil {
		cmds = append(cmds, LoadTagsCmd(m.TagSvc, false))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.MetaPanel.SetSize(SidePanelWidth, m.metaPanelHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case MediaSettledMsg:
		delete(m.waiting, msg.Handle)
		if !m.Session.Settle(msg.Handle) {
			return m, nil
		}
		// A settled center starts the backfill, which creates new handles
		return m, m.watchWindow()

	case EditResultMsg:
		m.PendingEdits--
		if msg.Err != nil {
			return m.setStatus(ErrMsg{Err: msg.Err, Context: "saving " + editNoun(msg.Edit)}.Error(), true)
		}
		m.Session.Apply(msg.Edit)
		return m.setStatus(describeEdit(msg.Edit), false)

	case TagsLoadedMsg:
		m.TagModal.Refresh()
		if !msg.Reloaded {
			return m, nil
		}
		return m.setStatus(fmt.Sprintf("%d tags loaded", msg.Count), false)

	case MetadataLoadedMsg:
		// a failed load leaves the panel empty
		m.MetaPanel.SetGroups(msg.ItemID, msg.Groups)
		if msg.Err != nil {
			return m.setStatus(ErrMsg{Err: msg.Err, Context: "loading metadata"}.Error(), true)
		}
		return m, nil

	case LaunchedMsg:
		return m.setStatus("Opened "+msg.Item.Name, false)

	case ErrMsg:
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		return m.quit()
	}

	// Help screen: any key returns
	if m.State == StateHelp {
		m.State = StateCarousel
		return m, nil
	}

	// Dialogs own the keyboard while open
	if m.LabelModal.IsVisible() {
		_, sel := m.LabelModal.HandleKey(keyStr)
		if !m.LabelModal.IsVisible() {
			m.Session.Focus().Pop()
		}
		if sel != nil {
			return m.applyLabel(sel.Value)
		}
		return m, nil
	}

	if m.TagModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.TagModal, cmd, submitted = m.TagModal.Update(msg)
		if !m.TagModal.IsVisible() {
			m.Session.Focus().Pop()
		}
		if submitted {
			var editCmd tea.Cmd
			e, err := m.Session.TagsEdit(m.TagModal.Selected())
			m, editCmd = m.sendEdit(e, err)
			return m, tea.Batch(cmd, editCmd)
		}
		return m, cmd
	}

	if m.MetaPanel.Filtering() {
		var cmd tea.Cmd
		m.MetaPanel, cmd = m.MetaPanel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.MetaPanel.IsVisible() {
			m.MetaPanel.Hide()
		}
		return m, nil

	case key.Matches(msg, Keys.Prev):
		return m.navigate(m.Session.Prev)
	case key.Matches(msg, Keys.Next):
		return m.navigate(m.Session.Next)
	case key.Matches(msg, Keys.First):
		return m.navigate(m.Session.First)
	case key.Matches(msg, Keys.Last):
		return m.navigate(m.Session.Last)

	case key.Matches(msg, Keys.Rate):
		e, err := m.Session.RatingEdit(int(keyStr[0] - '0'))
		return m.sendEdit(e, err)

	case key.Matches(msg, Keys.PickLabel):
		return m.openLabelModal(carousel.DialogPickLabel)
	case key.Matches(msg, Keys.ColorLabel):
		return m.openLabelModal(carousel.DialogColorLabel)

	case key.Matches(msg, Keys.Tags):
		return m.openTagModal()

	case key.Matches(msg, Keys.Metadata):
		if m.MetaPanel.IsVisible() {
			m.MetaPanel.Hide()
			return m, nil
		}
		return m, m.showMetadata()

	case key.Matches(msg, Keys.Filter):
		if m.Metadata == nil {
			return m, nil
		}
		cmd := m.showMetadata()
		m.MetaPanel.StartFilter()
		return m, cmd

	case key.Matches(msg, Keys.Open):
		if m.Opener == nil || m.Factory == nil {
			return m, nil
		}
		item := m.Session.Current().Item
		return m, LaunchCmd(m.Opener, m.Factory.FullURL(item), item)

	case key.Matches(msg, Keys.Reload):
		if m.TagSvc == nil {
			return m, nil
		}
		return m, LoadTagsCmd(m.TagSvc, true)
	}

	// Scrolling keys go to the metadata panel
	if m.MetaPanel.IsVisible() {
		var cmd tea.Cmd
		m.MetaPanel, cmd = m.MetaPanel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Session.Close()
	return m, tea.Quit
}

// navigate runs one ring step and starts waiting on the handles it created
func (m Model) navigate(step func() (carousel.Node, error)) (tea.Model, tea.Cmd) {
	node, err := step()
	if err != nil {
		return m.setStatus(err.Error(), !errors.Is(err, domain.ErrNotReady))
	}

	cmds := []tea.Cmd{m.watchWindow()}
	if m.MetaPanel.IsVisible() && m.Metadata != nil && node.Item.ID != m.MetaPanel.ItemID() {
		m.MetaPanel.Load(node.Item.ID)
		cmds = append(cmds, LoadMetadataCmd(m.Metadata, node.Item.ID))
	}
	return m, tea.Batch(cmds...)
}

// watchWindow issues a WaitMediaCmd for every window handle not yet watched
func (m Model) watchWindow() tea.Cmd {
	var cmds []tea.Cmd
	for _, h := range m.Session.Window().Slots() {
		if h == nil || m.waiting[h] {
			continue
		}
		m.waiting[h] = true
		cmds = append(cmds, WaitMediaCmd(h))
	}
	return tea.Batch(cmds...)
}

func (m Model) sendEdit(e carousel.Edit, err error) (Model, tea.Cmd) {
	if err != nil {
		return m.setStatus(err.Error(), !errors.Is(err, domain.ErrNotReady))
	}
	m.PendingEdits++
	return m, SendEditCmd(m.Session, e)
}

func (m Model) openLabelModal(d carousel.Dialog) (tea.Model, tea.Cmd) {
	if m.Session.State() != carousel.StateReady {
		return m.setStatus(domain.ErrNotReady.Error(), false)
	}
	item := m.Session.Current().Item
	m.labelDialog = d
	m.Session.Focus().Push(d)
	if d == carousel.DialogPickLabel {
		m.LabelModal.Show("Pick label", m.Labels.Pick, string(item.PickLabel), false)
	} else {
		m.LabelModal.Show("Color label", m.Labels.Color, string(item.ColorLabel), true)
	}
	return m, nil
}

func (m Model) applyLabel(value string) (tea.Model, tea.Cmd) {
	var e carousel.Edit
	var err error
	if m.labelDialog == carousel.DialogPickLabel {
		e, err = m.Session.PickEdit(domain.PickLabel(value))
	} else {
		e, err = m.Session.ColorEdit(domain.ColorLabel(value))
	}
	return m.sendEdit(e, err)
}

func (m Model) openTagModal() (tea.Model, tea.Cmd) {
	if m.Session.State() != carousel.StateReady {
		return m.setStatus(domain.ErrNotReady.Error(), false)
	}
	m.Session.Focus().Push(carousel.DialogTags)
	m.TagModal.Show(m.Session.Current().Item.Tags)

	if m.TagSvc != nil && !m.TagSvc.Loaded() {
		return m, LoadTagsCmd(m.TagSvc, false)
	}
	return m, nil
}

// showMetadata opens the metadata panel for the current item
func (m *Model) showMetadata() tea.Cmd {
	if m.Metadata == nil {
		return nil
	}
	id := m.Session.Current().Item.ID
	if m.MetaPanel.IsVisible() && m.MetaPanel.ItemID() == id {
		return nil
	}
	m.MetaPanel.Show(id)
	return LoadMetadataCmd(m.Metadata, id)
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return m, ClearStatusCmd(delay)
}

func editNoun(e carousel.Edit) string {
	switch e.Action {
	case domain.ActionSetRating:
		return "rating"
	case domain.ActionSetPickLabel:
		return "pick label"
	case domain.ActionSetColorLabel:
		return "color label"
	case domain.ActionSetTags:
		return "tags"
	}
	return e.Action
}

func describeEdit(e carousel.Edit) string {
	name := e.Item.Name
	switch e.Action {
	case domain.ActionSetRating:
		if e.Rating == 0 {
			return "Cleared rating of " + name
		}
		return fmt.Sprintf("Rated %s %s", name, e.Item.Stars())
	case domain.ActionSetPickLabel:
		if e.Pick == "" {
			return "Cleared pick label of " + name
		}
		return fmt.Sprintf("Labeled %s %s", name, e.Pick)
	case domain.ActionSetColorLabel:
		if e.Color == "" {
			return "Cleared color label of " + name
		}
		return fmt.Sprintf("Labeled %s %s", name, e.Color)
	case domain.ActionSetTags:
		return fmt.Sprintf("Tagged %s with %d tags", name, len(e.Tags))
	}
	return "Saved " + name
}

func (m Model) metaPanelHeight() int {
	h := (m.Height - ChromeHeight) / 2
	if h < 8 {
		h = 8
	}
	return h
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight
	var content string

	switch {
	case m.LabelModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.LabelModal.View())
	case m.TagModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.TagModal.View())
	default:
		content = m.renderContent(contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("reel")
	if m.Directory != nil {
		title += styles.DimStyle.Render("  " + m.Directory.Path)
	}
	node := m.Session.Current()
	pos := styles.SubtitleStyle.Render(fmt.Sprintf("%d / %d", node.Index+1, m.Session.Len()))

	gap := m.Width - lipgloss.Width(title) - lipgloss.Width(pos)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + pos
}

func (m Model) renderContent(height int) string {
	sideWidth := SidePanelWidth
	cardWidth := m.Width - sideWidth
	if cardWidth < MinCardWidth {
		cardWidth = m.Width
		sideWidth = 0
	}

	card := m.renderItemCard(cardWidth, height)
	if sideWidth == 0 {
		return card
	}

	histHeight := height
	side := []string{}
	if m.MetaPanel.IsVisible() {
		histHeight = height - m.metaPanelHeight()
	}
	hist := RenderHistogram(m.Session.Histogram(), m.Session.Len(), sideWidth-3)
	side = append(side, styles.InactiveBorder.
		Width(sideWidth-2).
		Height(histHeight-2).
		Render(hist))
	if m.MetaPanel.IsVisible() {
		side = append(side, m.MetaPanel.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, card, lipgloss.JoinVertical(lipgloss.Left, side...))
}

func (m Model) renderItemCard(width, height int) string {
	contentWidth := width - 4
	var lines []string

	if m.Session.State() == carousel.StateOpening {
		lines = append(lines, RenderSpinner(m.SpinnerFrame)+" "+styles.DimStyle.Render("Opening..."))
	} else {
		item := m.Session.Current().Item
		lines = append(lines,
			styles.TitleStyle.Render(styles.Truncate(item.Name, contentWidth)),
			RenderMediaInfo(m.Session.CurrentMedia(), m.SpinnerFrame),
			"",
			styles.RenderStars(item.Rating),
			RenderLabels(item, m.Labels),
		)
		if names := item.TagNames(); len(names) > 0 {
			tagLine := styles.DimStyle.Render("Tags ") + strings.Join(names, ", ")
			lines = append(lines, lipgloss.NewStyle().Width(contentWidth).Render(tagLine))
		} else {
			lines = append(lines, styles.DimStyle.Render("no tags"))
		}
		if len(item.Attachments) > 0 {
			lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("%d attachments", len(item.Attachments))))
		}
	}

	lines = append(lines, "", RenderFilmstrip(m.Session.Window().Slots()))

	return styles.ActiveBorder.
		Width(width-2).
		Height(height-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	// Left side: spinner + status
	var left string
	switch {
	case m.PendingEdits > 0:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Saving...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.Session.Loading():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	}

	// Center section: dialog-specific hints
	var center string
	if top, ok := m.Session.Focus().Top(); ok {
		switch top {
		case carousel.DialogPickLabel, carousel.DialogColorLabel:
			center = styles.AccentStyle.Render("enter") + styles.DimStyle.Render(" select  ") +
				styles.AccentStyle.Render("esc") + styles.DimStyle.Render(" cancel")
		case carousel.DialogTags:
			center = styles.AccentStyle.Render("tab") + styles.DimStyle.Render(" add  ") +
				styles.AccentStyle.Render("enter") + styles.DimStyle.Render(" apply")
		}
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      EDITING
  h/←        Previous item        0-5    Rate (0 clears)
  l/→/Space  Next item            p      Pick label
  g/Home     First item           c      Color label
  G/End      Last item            t      Tags

VIEW                            OTHER
  i          Toggle metadata      R      Reload tag catalog
  /          Filter metadata      q      Quit
  o/Enter    Open full size       ?      This help
  Esc        Close panel

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
