package carousel

import "github.com/mmcdole/reel/internal/domain"

// Node is one position of the ring: the item plus its 0-based index in the
// ordered list the ring was built from.
type Node struct {
	Index int
	Item  *domain.Item
}

// Ring is a circular traversal order over an immutable item list.
// Positions are indexes, so next/prev are modulo arithmetic and no node
// references itself. A Ring is rebuilt, never mutated, when the list changes.
type Ring struct {
	items []*domain.Item
	pos   int
}

// NewRing builds a ring over items positioned at start.
// If start is not part of items the ring starts at the first item.
func NewRing(items []*domain.Item, start *domain.Item) (*Ring, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptySet
	}

	// Own copy of the slice header order; the items themselves stay shared.
	list := make([]*domain.Item, len(items))
	copy(list, items)

	r := &Ring{items: list}
	for i, it := range list {
		if it == start {
			r.pos = i
			break
		}
	}
	return r, nil
}

// Len returns the number of nodes in the ring
func (r *Ring) Len() int { return len(r.items) }

// Current returns the node under the cursor
func (r *Ring) Current() Node { return r.node(r.pos) }

// Next advances to the following node, wrapping from last to first
func (r *Ring) Next() Node {
	r.pos = r.wrap(r.pos + 1)
	return r.Current()
}

// Prev moves to the preceding node, wrapping from first to last
func (r *Ring) Prev() Node {
	r.pos = r.wrap(r.pos - 1)
	return r.Current()
}

// First jumps to the head node
func (r *Ring) First() Node {
	r.pos = 0
	return r.Current()
}

// Last jumps to the tail node
func (r *Ring) Last() Node {
	r.pos = len(r.items) - 1
	return r.Current()
}

// Items returns the ordered item list the ring was built from
func (r *Ring) Items() []*domain.Item { return r.items }

// Walk returns an independent cursor at the current node.
// Moving the cursor never moves the ring.
func (r *Ring) Walk() Cursor {
	return Cursor{ring: r, pos: r.pos}
}

func (r *Ring) node(i int) Node {
	return Node{Index: i, Item: r.items[i]}
}

func (r *Ring) wrap(i int) int {
	n := len(r.items)
	return ((i % n) + n) % n
}

// Cursor is a read-only walk position over a ring
type Cursor struct {
	ring *Ring
	pos  int
}

// Node returns the node at the cursor
func (c Cursor) Node() Node { return c.ring.node(c.pos) }

// Next returns a cursor one step forward
func (c Cursor) Next() Cursor {
	return Cursor{ring: c.ring, pos: c.ring.wrap(c.pos + 1)}
}

// Prev returns a cursor one step back
func (c Cursor) Prev() Cursor {
	return Cursor{ring: c.ring, pos: c.ring.wrap(c.pos - 1)}
}

// Offset returns a cursor n steps away (negative = backwards)
func (c Cursor) Offset(n int) Cursor {
	return Cursor{ring: c.ring, pos: c.ring.wrap(c.pos + n)}
}
