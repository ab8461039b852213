package tags

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// Service loads the tag catalog once and serves lookups for the tagging dialog
type Service struct {
	repo   domain.TagRepository
	store  domain.Store
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *Catalog
}

// NewService creates a tag service. store may be nil.
func NewService(repo domain.TagRepository, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, store: store, logger: logger}
}

// Load returns the catalog, fetching it on first use. With reload set the
// server is always asked and the cached tree replaced.
func (s *Service) Load(ctx context.Context, reload bool) (*Catalog, error) {
	if !reload {
		s.mu.RLock()
		c := s.catalog
		s.mu.RUnlock()
		if c != nil {
			return c, nil
		}
		if s.store != nil {
			if nodes, ok := s.store.GetTags(); ok {
				s.logger.Debug("tag catalog from store", "roots", len(nodes))
				return s.set(nodes), nil
			}
		}
	}

	nodes, err := s.repo.GetTags(ctx)
	if err != nil {
		s.logger.Error("failed to load tags", "error", err)
		return nil, err
	}
	if s.store != nil {
		if err := s.store.SaveTags(nodes); err != nil {
			s.logger.Warn("failed to save tags", "error", err)
		}
	}

	c := s.set(nodes)
	s.logger.Info("tag catalog loaded", "tags", c.Len())
	return c, nil
}

// Loaded reports whether a catalog is available without a fetch
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog != nil
}

// Find searches the loaded catalog; it returns nothing before Load
func (s *Service) Find(text string) []domain.Tag {
	s.mu.RLock()
	c := s.catalog
	s.mu.RUnlock()
	if c == nil {
		return nil
	}
	return c.Find(text)
}

// Suggest combines Find and Rank: section search first, then best matches on top
func (s *Service) Suggest(text string) []domain.Tag {
	found := s.Find(text)
	query := lastSection(text)
	if query == Wildcard {
		return found
	}
	return Rank(query, found)
}

func (s *Service) set(nodes []domain.TagNode) *Catalog {
	c := NewCatalog(nodes)
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return c
}

func lastSection(text string) string {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '/' {
			return text[i+1:]
		}
	}
	return text
}
