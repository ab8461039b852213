package tui

import (
	"testing"

	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/stretchr/testify/assert"
)

func TestBucketStyle(t *testing.T) {
	tests := []struct {
		name   string
		bucket carousel.Bucket
		want   string
	}{
		{"within curve", carousel.Bucket{Rating: 5, Count: 2, Recommended: 5, HasRecommendation: true}, "subtitle"},
		{"above curve", carousel.Bucket{Rating: 5, Count: 9, Recommended: 5, HasRecommendation: true}, "accent"},
		{"one star has no curve", carousel.Bucket{Rating: 1, Count: 40}, "subtitle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bucketStyle(tt.bucket)
			// guideline only: never drawn as an error
			assert.NotEqual(t, styles.ErrorStyle.GetForeground(), got.GetForeground())
			if tt.want == "accent" {
				assert.Equal(t, styles.AccentStyle.GetForeground(), got.GetForeground())
			} else {
				assert.Equal(t, styles.SubtitleStyle.GetForeground(), got.GetForeground())
			}
		})
	}
}

func TestRenderHistogram(t *testing.T) {
	items := []*domain.Item{{Rating: 5}, {Rating: 5}, {Rating: 1}, {}}
	out := RenderHistogram(carousel.NewHistogram(items), len(items), 40)
	assert.Contains(t, out, "Ratings")
	assert.Contains(t, out, "3 of 4 rated")
}
