package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

const (
	tagModalWidth  = 48
	maxSuggestions = 8
)

// SuggestFunc returns catalog tags matching the typed text, best first
type SuggestFunc func(text string) []domain.Tag

// TagModal edits the tag set of an item: type to search the catalog,
// tab adds the highlighted suggestion, enter applies the set.
type TagModal struct {
	visible     bool
	input       textinput.Model
	suggest     SuggestFunc
	selected    []domain.Tag
	suggestions []domain.Tag
	cursor      int
}

// NewTagModal creates a new tag modal
func NewTagModal(suggest SuggestFunc) TagModal {
	ti := textinput.New()
	ti.Placeholder = "places/beach, * for all..."
	ti.CharLimit = 120
	ti.Width = tagModalWidth - 4
	ti.Prompt = "› "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return TagModal{
		input:   ti,
		suggest: suggest,
	}
}

// Show displays the modal with the item's current tags
func (m *TagModal) Show(current []domain.Tag) {
	m.visible = true
	m.selected = append([]domain.Tag(nil), current...)
	m.input.SetValue("")
	m.input.Focus()
	m.refresh()
}

// Hide dismisses the modal
func (m *TagModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m TagModal) IsVisible() bool {
	return m.visible
}

// Selected returns the tag set being edited
func (m TagModal) Selected() []domain.Tag {
	return m.selected
}

// Suggestions returns the suggestions for the current input
func (m TagModal) Suggestions() []domain.Tag {
	return m.suggestions
}

// Update handles input events, returns (modal, cmd, submitted)
func (m TagModal) Update(msg tea.Msg) (TagModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.Hide()
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "down", "ctrl+n":
			if m.cursor < len(m.suggestions)-1 {
				m.cursor++
			}
			return m, nil, false
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, false
		case "tab":
			if m.cursor < len(m.suggestions) {
				m.add(m.suggestions[m.cursor])
				m.input.SetValue("")
				m.refresh()
			}
			return m, nil, false
		case "backspace":
			if m.input.Value() == "" && len(m.selected) > 0 {
				m.selected = m.selected[:len(m.selected)-1]
				return m, nil, false
			}
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd, false
}

func (m *TagModal) add(t domain.Tag) {
	for _, s := range m.selected {
		if s.ID == t.ID {
			return
		}
	}
	m.selected = append(m.selected, t)
}

// Refresh recomputes the suggestions, e.g. after the catalog loaded
func (m *TagModal) Refresh() {
	if m.visible {
		m.refresh()
	}
}

func (m *TagModal) refresh() {
	m.cursor = 0
	m.suggestions = nil
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.suggest == nil {
		return
	}
	found := m.suggest(text)
	if len(found) > maxSuggestions {
		found = found[:maxSuggestions]
	}
	m.suggestions = found
}

// View renders the tag modal
func (m TagModal) View() string {
	if !m.visible {
		return ""
	}

	var chips []string
	for _, t := range m.selected {
		chips = append(chips, styles.BadgeStyle.Render(t.Name))
	}
	current := styles.DimStyle.Render("no tags")
	if len(chips) > 0 {
		current = lipgloss.NewStyle().Width(tagModalWidth).Render(strings.Join(chips, " "))
	}

	var rows []string
	for i, t := range m.suggestions {
		name := t.FullName
		if name == "" {
			name = t.Name
		}
		rows = append(rows, styles.RenderListRow([]styles.RowPart{
			{Text: styles.Truncate(name, tagModalWidth-4)},
		}, i == m.cursor, tagModalWidth))
	}
	if len(rows) == 0 && m.input.Value() != "" {
		rows = append(rows, styles.DimStyle.Render("  no matching tags"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Tags"),
		current,
		"",
		m.input.View(),
		strings.Join(rows, "\n"),
		"",
		styles.DimStyle.Render("tab add · bksp remove · enter apply · esc cancel"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ReelAmber).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
