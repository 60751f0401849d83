package cache

import (
	"chainpress/internal/domain/build"
	"chainpress/internal/domain/content"
	"encoding/json"
	bolt "go.etcd.io/bbolt"
	"strings"
	"time"
)

// Get returns the cached render of slug when it was stored under the same
// render fingerprint.
func (s *Store) Get(c content.Category, slug string, fp build.Fingerprint) (Entry, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" || fp.RenderHash == "" {
		return Entry{}, false
	}
	var e Entry
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bRender)
		if parent == nil {
			return nil
		}
		cb := parent.Bucket([]byte(c))
		if cb == nil {
			return nil
		}
		v := cb.Get([]byte(slug))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &e); err != nil {
			return nil
		}
		found = e.RenderHash == fp.RenderHash
		return nil
	})
	if !found {
		return Entry{}, false
	}
	return e, true
}

func (s *Store) Put(c content.Category, slug string, fp build.Fingerprint, e Entry) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	e.RenderHash = fp.RenderHash
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		parent, err := tx.CreateBucketIfNotExists(bRender)
		if err != nil {
			return err
		}
		cb, err := parent.CreateBucketIfNotExists([]byte(c))
		if err != nil {
			return err
		}
		return cb.Put([]byte(slug), b)
	})
}

// Invalidate removes the entry of slug. Missing entries are ignored.
func (s *Store) Invalidate(c content.Category, slug string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bRender)
		if parent == nil {
			return nil
		}
		cb := parent.Bucket([]byte(c))
		if cb == nil {
			return nil
		}
		return cb.Delete([]byte(slug))
	})
}

// Purge drops every entry.
func (s *Store) Purge() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bRender) != nil {
			if err := tx.DeleteBucket(bRender); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(bRender)
		return err
	})
}

// Counts returns the number of cached entries per category.
func (s *Store) Counts() (map[content.Category]int, error) {
	out := make(map[content.Category]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bRender)
		if parent == nil {
			return nil
		}
		return parent.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			cb := parent.Bucket(k)
			if cb == nil {
				return nil
			}
			out[content.Category(k)] = cb.Stats().KeyN
			return nil
		})
	})
	return out, err
}
