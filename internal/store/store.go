package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/panda/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSettings  = []byte("settings")
	bucketGalleries = []byte("galleries")
	bucketCookies   = []byte("cookies")
)

var allBuckets = [][]byte{bucketSettings, bucketGalleries, bucketCookies}

// Store is the durable key-value store behind settings, per-gallery state
// and cookies. A Store opened without a directory keeps everything in memory.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	galleryMu sync.Mutex // Serializes read-modify-write of gallery state

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) panda.db inside dir. An empty dir selects
// memory-only mode.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "panda.db")
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

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Memory returns a store that never touches disk
func Memory() *Store {
	s, _ := Open("")
	return s
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest any) (bool, error) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return true, json.Unmarshal(data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
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
	if err != nil {
		return false, fmt.Errorf("failed to read %s/%s: %w", bucket, key, err)
	}
	if data == nil {
		return false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return true, json.Unmarshal(data, dest)
}

func (s *Store) set(bucket []byte, key string, value any) error {
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

func (s *Store) clearBucket(bucket []byte) error {
	prefix := string(bucket) + ":"
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		var keys [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Settings slots ===

// LoadSlot decodes the named settings slot into dest. It reports false when
// the slot has never been written.
func (s *Store) LoadSlot(key string, dest any) (bool, error) {
	return s.get(bucketSettings, key, dest)
}

// SaveSlot writes the named settings slot synchronously
func (s *Store) SaveSlot(key string, value any) error {
	return s.set(bucketSettings, key, value)
}

// === Gallery state ===

// LoadGalleryState returns the persisted state of a gallery. A gallery that
// was never saved yields an empty state.
func (s *Store) LoadGalleryState(gid string) (domain.GalleryState, error) {
	var gs domain.GalleryState
	if _, err := s.get(bucketGalleries, gid, &gs); err != nil {
		return domain.GalleryState{}, err
	}
	return gs, nil
}

// SavePreviews merges previews into the persisted state; stored keys win
func (s *Store) SavePreviews(gid string, previews map[int]string) error {
	return s.updateGalleryState(gid, func(gs *domain.GalleryState) {
		gs.Previews = mergeStored(gs.Previews, previews)
	})
}

// SaveContents merges contents into the persisted state; stored keys win
func (s *Store) SaveContents(gid string, contents map[int]string) error {
	return s.updateGalleryState(gid, func(gs *domain.GalleryState) {
		gs.Contents = mergeStored(gs.Contents, contents)
	})
}

func (s *Store) updateGalleryState(gid string, fn func(*domain.GalleryState)) error {
	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()

	gs, err := s.LoadGalleryState(gid)
	if err != nil {
		return err
	}
	fn(&gs)
	return s.set(bucketGalleries, gid, gs)
}

func mergeStored(stored, incoming map[int]string) map[int]string {
	if stored == nil {
		stored = make(map[int]string, len(incoming))
	}
	for k, v := range incoming {
		if _, ok := stored[k]; !ok {
			stored[k] = v
		}
	}
	return stored
}
