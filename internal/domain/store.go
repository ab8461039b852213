package domain

// Store handles the local catalog cache (BoltDB + memory).
// Media bytes are never stored here; only listings and the tag catalog.
type Store interface {
	// === Directories ===
	GetDirectory(dirID string) (*Directory, []*Item, bool)
	SaveDirectory(dir *Directory, items []*Item) error

	// === Tag catalog ===
	GetTags() ([]TagNode, bool)
	SaveTags(tags []TagNode) error

	// === Invalidation ===
	InvalidateDirectory(dirID string)
	InvalidateAll()

	Close() error
}
