package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketDirectories = []byte("directories")
	bucketTags        = []byte("tags")

	allBuckets = [][]byte{bucketDirectories, bucketTags}
)

// directoryRecord is the stored form of one directory listing
type directoryRecord struct {
	Directory *domain.Directory `json:"directory"`
	Items     []*domain.Item    `json:"items"`
	SavedAt   int64             `json:"saved_at"`
}

// CatalogStore implements domain.Store using BoltDB.
type CatalogStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewCatalogStore opens the store under baseCacheDir, one database per
// server. An empty baseCacheDir keeps everything in memory.
func NewCatalogStore(baseCacheDir, serverURL string) (*CatalogStore, error) {
	if baseCacheDir == "" {
		return &CatalogStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CatalogStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CatalogStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CatalogStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *CatalogStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Directories ===

// GetDirectory returns a saved listing. The items are fresh copies, so edits
// made by one carousel never leak into a later read.
func (s *CatalogStore) GetDirectory(dirID string) (*domain.Directory, []*domain.Item, bool) {
	var rec directoryRecord
	if !s.get(bucketDirectories, "dir:"+dirID, &rec) || rec.Directory == nil {
		return nil, nil, false
	}
	return rec.Directory, rec.Items, true
}

func (s *CatalogStore) SaveDirectory(dir *domain.Directory, items []*domain.Item) error {
	return s.set(bucketDirectories, "dir:"+dir.ID, directoryRecord{
		Directory: dir,
		Items:     items,
		SavedAt:   time.Now().Unix(),
	})
}

func (s *CatalogStore) InvalidateDirectory(dirID string) {
	s.delete(bucketDirectories, "dir:"+dirID)
}

// === Tag catalog ===

func (s *CatalogStore) GetTags() ([]domain.TagNode, bool) {
	var nodes []domain.TagNode
	ok := s.get(bucketTags, "tree", &nodes)
	return nodes, ok
}

func (s *CatalogStore) SaveTags(nodes []domain.TagNode) error {
	return s.set(bucketTags, "tree", nodes)
}

func (s *CatalogStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
