package carousel

import (
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRingEmpty(t *testing.T) {
	r, err := NewRing(nil, nil)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, domain.ErrEmptySet)
}

func TestNewRingStartsAtStartItem(t *testing.T) {
	items := makeItems("a", "b", "c")
	r, err := NewRing(items, items[1])
	require.NoError(t, err)

	cur := r.Current()
	assert.Equal(t, 1, cur.Index)
	assert.Same(t, items[1], cur.Item)
}

func TestNewRingFallsBackToFirst(t *testing.T) {
	items := makeItems("a", "b", "c")
	stranger := &domain.Item{ID: "b"} // same id, different item

	r, err := NewRing(items, stranger)
	require.NoError(t, err)
	assert.Same(t, items[0], r.Current().Item)

	r, err = NewRing(items, nil)
	require.NoError(t, err)
	assert.Same(t, items[0], r.Current().Item)
}

func TestRingClosure(t *testing.T) {
	for n := 1; n <= 9; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		items := makeItems(ids...)

		for start := 0; start < n; start++ {
			r, err := NewRing(items, items[start])
			require.NoError(t, err)

			for i := 0; i < n; i++ {
				r.Next()
			}
			assert.Equal(t, start, r.Current().Index, "next closure n=%d start=%d", n, start)

			for i := 0; i < n; i++ {
				r.Prev()
			}
			assert.Equal(t, start, r.Current().Index, "prev closure n=%d start=%d", n, start)
		}
	}
}

func TestRingWraps(t *testing.T) {
	items := makeItems("a", "b", "c")
	r, err := NewRing(items, items[2])
	require.NoError(t, err)

	assert.Same(t, items[0], r.Next().Item)
	assert.Same(t, items[2], r.Prev().Item)
	assert.Same(t, items[1], r.Prev().Item)
}

func TestRingFirstLast(t *testing.T) {
	items := makeItems("a", "b", "c", "d")
	r, err := NewRing(items, items[1])
	require.NoError(t, err)

	last := r.Last()
	assert.Equal(t, 3, last.Index)
	assert.Same(t, items[3], last.Item)

	first := r.First()
	assert.Equal(t, 0, first.Index)
	assert.Same(t, items[0], r.Current().Item)
}

func TestRingSharesItems(t *testing.T) {
	items := makeItems("a", "b")
	r, err := NewRing(items, items[0])
	require.NoError(t, err)

	r.Current().Item.Rating = 4
	assert.Equal(t, 4, items[0].Rating)
}

func TestCursorDoesNotMoveRing(t *testing.T) {
	items := makeItems("a", "b", "c", "d", "e")
	r, err := NewRing(items, items[2])
	require.NoError(t, err)

	c := r.Walk()
	assert.Equal(t, 3, c.Next().Node().Index)
	assert.Equal(t, 1, c.Prev().Node().Index)
	assert.Equal(t, 4, c.Offset(-3).Node().Index)
	assert.Equal(t, 0, c.Offset(3).Node().Index)
	assert.Equal(t, 2, c.Offset(10).Node().Index)

	assert.Equal(t, 2, r.Current().Index)
}
