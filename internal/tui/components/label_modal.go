package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

const labelModalWidth = 24

// LabelSelection is the user's confirmed label choice; an empty Value clears the label
type LabelSelection struct {
	Value string
}

// LabelModal is a small popup for choosing a pick or color label
type LabelModal struct {
	visible bool
	title   string
	options []domain.LabelOption // options[0] is the "None" entry
	cursor  int
	active  string
	colored bool
}

// NewLabelModal creates a new label modal
func NewLabelModal() LabelModal {
	return LabelModal{}
}

// Show displays the modal with the configured options and the item's current value.
// colored renders each option in its label color.
func (m *LabelModal) Show(title string, options []domain.LabelOption, active string, colored bool) {
	m.visible = true
	m.title = title
	m.active = active
	m.colored = colored
	m.options = append([]domain.LabelOption{{Value: "", Label: "None", Shortcut: "backspace"}}, options...)

	// Position cursor on the active value
	m.cursor = 0
	for i, opt := range m.options {
		if opt.Value == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *LabelModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m LabelModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *LabelModal) HandleKey(key string) (handled bool, selection *LabelSelection) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		m.visible = false
		return true, &LabelSelection{Value: m.options[m.cursor].Value}
	case "esc", "q":
		m.visible = false
		return true, nil
	}

	// Shortcuts select directly
	for _, opt := range m.options {
		if opt.Shortcut != "" && opt.Shortcut == key {
			m.visible = false
			return true, &LabelSelection{Value: opt.Value}
		}
	}

	return true, nil // consume all keys when visible
}

// View renders the label modal
func (m LabelModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	var lines []string
	for i, opt := range m.options {
		selected := i == m.cursor
		isActive := opt.Value == m.active

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}
		text := prefix + opt.Label
		if opt.Icon != "" {
			text = prefix + opt.Icon + " " + opt.Label
		}
		if opt.Shortcut != "" && opt.Value != "" {
			text = styles.Pad(text, labelModalWidth-4) + opt.Shortcut
		}

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case selected:
			style = style.Foreground(styles.White).Background(styles.SlateLight)
		case isActive:
			style = style.Foreground(styles.ReelAmber)
		case m.colored && opt.Value != "":
			style = style.Foreground(styles.LabelColor(opt.Value))
		}
		lines = append(lines, style.Render(styles.Pad(text, labelModalWidth)))
	}

	content := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ReelAmber).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render(m.title) + "\n" + content)
}
