package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Slot glyphs of the filmstrip
const (
	slotEmpty   = "·"
	slotLoading = "◌"
	slotReady   = "●"
	slotFailed  = "✕"
)

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderFilmstrip renders the prefetch window as one glyph per slot,
// the current slot highlighted
func RenderFilmstrip(slots [carousel.WindowSize]*carousel.MediaHandle) string {
	parts := make([]string, len(slots))
	for i, h := range slots {
		glyph, style := slotEmpty, styles.DimStyle
		if h != nil {
			switch h.State() {
			case carousel.LoadLoading:
				glyph = slotLoading
			case carousel.LoadReady:
				glyph, style = slotReady, styles.SubtitleStyle
			case carousel.LoadFailed:
				glyph, style = slotFailed, styles.ErrorStyle
			}
		}
		if i == carousel.CenterSlot {
			style = styles.AccentStyle
		}
		parts[i] = style.Render(glyph)
	}
	return strings.Join(parts, " ")
}

// RenderHistogram renders one row per star bucket: stars, bar, "actual / recommended"
func RenderHistogram(h *carousel.Histogram, total int, width int) string {
	buckets := h.Buckets()

	scale := 1
	for _, b := range buckets {
		if b.Count > scale {
			scale = b.Count
		}
		if b.HasRecommendation && b.Recommended > scale {
			scale = b.Recommended
		}
	}

	const starsWidth, countWidth = 5, 11
	barWidth := width - starsWidth - countWidth - 2
	if barWidth < 3 {
		barWidth = 3
	}

	lines := []string{styles.AccentStyle.Render("Ratings"), ""}
	for _, b := range buckets {
		percent := float64(b.Count) * 100 / float64(scale)
		count := bucketStyle(b).Render(b.String())
		lines = append(lines, styles.RenderStars(b.Rating)+" "+
			styles.RenderProgressBar(percent, barWidth)+" "+count)
	}
	lines = append(lines, "", styles.DimStyle.Render(fmt.Sprintf("%d of %d rated", h.Total, total)))
	return strings.Join(lines, "\n")
}

// bucketStyle highlights buckets above their recommended count
func bucketStyle(b carousel.Bucket) lipgloss.Style {
	if b.HasRecommendation && b.Count > b.Recommended {
		return styles.AccentStyle
	}
	return styles.SubtitleStyle
}

// RenderLabels renders the pick and color labels of item as badges
func RenderLabels(item *domain.Item, labels domain.LabelSettings) string {
	var parts []string
	if item.PickLabel != "" {
		parts = append(parts, styles.BadgeStyle.Render(labelText(labels.Pick, string(item.PickLabel))))
	}
	if item.ColorLabel != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.SlateDark).
			Background(styles.LabelColor(string(item.ColorLabel))).
			Padding(0, 1).
			Render(labelText(labels.Color, string(item.ColorLabel))))
	}
	if len(parts) == 0 {
		return styles.DimStyle.Render("no labels")
	}
	return strings.Join(parts, " ")
}

func labelText(opts []domain.LabelOption, value string) string {
	for _, o := range opts {
		if o.Value == value {
			if o.Icon != "" {
				return o.Icon + " " + o.Label
			}
			return o.Label
		}
	}
	return value
}

// RenderMediaInfo describes the loaded resource of h
func RenderMediaInfo(h *carousel.MediaHandle, frame int) string {
	if h == nil {
		return ""
	}
	switch h.State() {
	case carousel.LoadLoading:
		return RenderSpinner(frame) + " " + styles.DimStyle.Render("Loading media...")
	case carousel.LoadFailed:
		return styles.ErrorStyle.Render("✕ " + h.Err().Error())
	}
	if h.Kind == domain.MediaKindVideo {
		return styles.SubtitleStyle.Render("video · " + h.ContentType())
	}
	w, ht := h.Dimensions()
	return styles.SubtitleStyle.Render(fmt.Sprintf("image · %d×%d %s", w, ht, h.Format()))
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	return lipgloss.NewStyle().Width(width - 4).Render(styles.ErrorStyle.Render("Error: " + err.Error()))
}
