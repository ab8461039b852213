package carousel

import (
	"fmt"
	"math"

	"github.com/mmcdole/reel/internal/domain"
)

// recommendationBase is the geometric decay between neighbouring rating buckets
const recommendationBase = 5

// Histogram counts ratings over the working set.
// Counts[0] holds 5-star items, Counts[4] holds 1-star items.
type Histogram struct {
	Counts [domain.MaxRating]int
	Total  int // items with rating > 0
}

// Bucket is one rendered histogram row
type Bucket struct {
	Rating            int
	Count             int
	Recommended       int
	HasRecommendation bool
}

// String renders "<actual> / <recommended>", or just "<actual>" for the 1-star bucket
func (b Bucket) String() string {
	if !b.HasRecommendation {
		return fmt.Sprintf("%d", b.Count)
	}
	return fmt.Sprintf("%d / %d", b.Count, b.Recommended)
}

// NewHistogram computes the histogram of items
func NewHistogram(items []*domain.Item) *Histogram {
	h := &Histogram{}
	h.Rebuild(items)
	return h
}

// Rebuild recounts all items from scratch
func (h *Histogram) Rebuild(items []*domain.Item) {
	*h = Histogram{}
	for _, it := range items {
		h.add(it.Rating, 1)
	}
}

// Patch moves one item from oldRating to newRating.
// Equivalent to a Rebuild after the change.
func (h *Histogram) Patch(oldRating, newRating int) {
	h.add(oldRating, -1)
	h.add(newRating, 1)
}

// Count returns the number of items with the given rating (1-5)
func (h *Histogram) Count(rating int) int {
	if !validStars(rating) {
		return 0
	}
	return h.Counts[domain.MaxRating-rating]
}

// Recommended returns the guideline counts for the 5..2 star buckets:
// total/5 for 5 stars, total/25 for 4 stars and so on, rounded.
func (h *Histogram) Recommended() [domain.MaxRating - 1]int {
	var rec [domain.MaxRating - 1]int
	divisor := 1.0
	for i := range rec {
		divisor *= recommendationBase
		rec[i] = int(math.Round(float64(h.Total) / divisor))
	}
	return rec
}

// Buckets returns the rows from 5 stars down to 1 star
func (h *Histogram) Buckets() []Bucket {
	rec := h.Recommended()
	buckets := make([]Bucket, domain.MaxRating)
	for i := range buckets {
		buckets[i] = Bucket{
			Rating: domain.MaxRating - i,
			Count:  h.Counts[i],
		}
		if i < len(rec) {
			buckets[i].Recommended = rec[i]
			buckets[i].HasRecommendation = true
		}
	}
	return buckets
}

func (h *Histogram) add(rating, delta int) {
	if !validStars(rating) {
		return
	}
	h.Counts[domain.MaxRating-rating] += delta
	h.Total += delta
}

func validStars(rating int) bool {
	return rating >= 1 && rating <= domain.MaxRating
}
