package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/metadata"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for the metadata panel
const (
	panelBorderHeight     = 2
	panelScrollIndicators = 2
	panelTitleHeight      = 2 // title + filter line
)

// MetadataPanel shows the grouped metadata of the current item with an
// optional fuzzy filter over "key value" rows.
type MetadataPanel struct {
	visible   bool
	loading   bool
	itemID    string
	groups    []metadata.Group
	filter    textinput.Model
	filtering bool
	width     int
	height    int
	offset    int
}

// NewMetadataPanel creates a hidden metadata panel
func NewMetadataPanel() MetadataPanel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 60
	ti.Prompt = "/"
	ti.PromptStyle = styles.FilterPromptStyle
	ti.PlaceholderStyle = styles.DimStyle
	return MetadataPanel{filter: ti}
}

// Show opens the panel for itemID; its groups arrive later through SetGroups
func (p *MetadataPanel) Show(itemID string) {
	p.visible = true
	p.Load(itemID)
}

// Load switches the panel to another item and marks it loading
func (p *MetadataPanel) Load(itemID string) {
	p.itemID = itemID
	p.loading = true
	p.groups = nil
	p.offset = 0
}

// SetGroups stores the loaded metadata. Results for an item the panel no
// longer shows are dropped and false is returned.
func (p *MetadataPanel) SetGroups(itemID string, groups []metadata.Group) bool {
	if itemID != p.itemID {
		return false
	}
	p.groups = groups
	p.loading = false
	return true
}

// Hide closes the panel and clears the filter
func (p *MetadataPanel) Hide() {
	p.visible = false
	p.StopFilter(true)
}

// IsVisible returns whether the panel is shown
func (p MetadataPanel) IsVisible() bool {
	return p.visible
}

// ItemID returns the item whose metadata is shown
func (p MetadataPanel) ItemID() string {
	return p.itemID
}

// Filtering reports whether the filter input owns the keyboard
func (p MetadataPanel) Filtering() bool {
	return p.filtering
}

// StartFilter focuses the filter input
func (p *MetadataPanel) StartFilter() {
	p.filtering = true
	p.filter.Focus()
}

// StopFilter blurs the filter input, clearing it when clear is set
func (p *MetadataPanel) StopFilter(clear bool) {
	p.filtering = false
	p.filter.Blur()
	if clear {
		p.filter.SetValue("")
	}
	p.offset = 0
}

// Groups returns the groups left after filtering
func (p MetadataPanel) Groups() []metadata.Group {
	return metadata.Filter(p.groups, p.filter.Value())
}

// SetSize updates the component dimensions
func (p *MetadataPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles filter typing and scrolling
func (p MetadataPanel) Update(msg tea.Msg) (MetadataPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "pgdown", "ctrl+d":
		p.offset += p.maxVisible() / 2
		return p, nil
	case "pgup", "ctrl+u":
		p.offset -= p.maxVisible() / 2
		if p.offset < 0 {
			p.offset = 0
		}
		return p, nil
	}

	if !p.filtering {
		return p, nil
	}
	switch keyMsg.String() {
	case "esc":
		p.StopFilter(true)
		return p, nil
	case "enter":
		p.StopFilter(false)
		return p, nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.offset = 0
	return p, cmd
}

func (p MetadataPanel) maxVisible() int {
	n := p.height - panelBorderHeight - panelScrollIndicators - panelTitleHeight
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the panel
func (p MetadataPanel) View() string {
	if !p.visible {
		return ""
	}
	style := styles.InactiveBorder
	if p.filtering {
		style = styles.ActiveBorder
	}

	contentWidth := p.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}

	var lines []string
	switch {
	case p.loading:
		lines = []string{styles.DimStyle.Render("Loading...")}
	case len(p.groups) == 0:
		lines = []string{styles.DimStyle.Render("No metadata")}
	default:
		lines = renderGroups(p.Groups(), contentWidth)
		if len(lines) == 0 {
			lines = []string{styles.DimStyle.Render("No matches")}
		}
	}

	// Clamp scroll offset
	visible := p.maxVisible()
	maxOffset := len(lines) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := p.offset
	if offset > maxOffset {
		offset = maxOffset
	}
	end := offset + visible
	if end > len(lines) {
		end = len(lines)
	}

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(lines) {
		down = styles.DimStyle.Render("↓ more")
	}

	filterLine := styles.DimStyle.Render("/ to filter")
	if p.filtering || p.filter.Value() != "" {
		filterLine = p.filter.View()
	}

	parts := []string{
		styles.AccentStyle.Render("Metadata"),
		filterLine,
		up,
		strings.Join(lines[offset:end], "\n"),
	}
	for j := end - offset; j < visible; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(p.width - frameW).
		Height(p.height - frameH).
		Render(strings.Join(parts, "\n"))
}

func renderGroups(groups []metadata.Group, width int) []string {
	keyWidth := width / 3
	var lines []string
	for gi, g := range groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.GroupHeaderStyle.Render(styles.Truncate(g.Name, width)))
		for _, e := range g.Entries {
			key := styles.DimStyle.Render(styles.Pad(e.Key, keyWidth))
			value := lipgloss.NewStyle().Foreground(styles.White).
				Render(styles.Truncate(e.Value, width-keyWidth-1))
			lines = append(lines, key+" "+value)
		}
	}
	return lines
}
