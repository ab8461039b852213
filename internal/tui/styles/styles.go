package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ReelAmber  = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
	Yellow     = lipgloss.Color("#FACC15")
	Purple     = lipgloss.Color("#A855F7")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ReelAmber)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ReelAmber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)
)

// Stars
var (
	StarStyle      = lipgloss.NewStyle().Foreground(ReelAmber)
	EmptyStarStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ReelAmber).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Progress bar styles, also used for histogram bars
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(ReelAmber)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// BadgeStyle renders pick labels and tag chips
var BadgeStyle = lipgloss.NewStyle().
	Foreground(White).
	Background(ReelAmber).
	Padding(0, 1)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ReelAmber)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(ReelAmber).
				Bold(true)

	GroupHeaderStyle = lipgloss.NewStyle().
				Foreground(ReelAmber).
				Bold(true)
)

// labelColors maps the configured color label values onto the palette
var labelColors = map[string]lipgloss.Color{
	"red":    Red,
	"yellow": Yellow,
	"green":  Green,
	"blue":   Blue,
	"purple": Purple,
}

// LabelColor returns the palette color for a color label value (gray when unknown)
func LabelColor(value string) lipgloss.Color {
	if c, ok := labelColors[value]; ok {
		return c
	}
	return LightGray
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderStars renders a 0-5 rating as filled and empty stars
func RenderStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return StarStyle.Render(strings.Repeat("★", rating)) +
		EmptyStarStyle.Render(strings.Repeat("☆", 5-rating))
}

// RenderProgressBar renders a bar filled to percent (0-100)
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderListRow renders a complete list row with uniform background when selected.
// parts is a slice of {text, fgColor} pairs. Use nil for default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width, keeping one column of margin on each side
	padStyle := lipgloss.NewStyle()
	if selected {
		padStyle = padStyle.Background(bg)
	}
	if paddingNeeded := width - visibleLen - 2; paddingNeeded > 0 {
		b.WriteString(padStyle.Render(strings.Repeat(" ", paddingNeeded)))
	}
	margin := padStyle.Render(" ")

	return margin + b.String() + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
