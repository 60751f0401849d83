// Package cache keeps rendered markdown in a bbolt file so unchanged content
// is not rendered again on every query. It is a derived artifact; deleting
// the file is always safe.
package cache

import (
	"chainpress/internal/domain/content"
	"errors"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".chainpress/cache.db"
}

// Entry is one cached render.
type Entry struct {
	RenderHash string            `json:"render_hash"`
	HTML       string            `json:"html"`
	Headings   []content.Heading `json:"headings,omitempty"`
	StoredAt   time.Time         `json:"stored_at"`
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("cache: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// init drops entries written by another schema version.
func (s *Store) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		info, err := tx.CreateBucketIfNotExists(bInfo)
		if err != nil {
			return err
		}
		if string(info.Get(kSchema)) != schemaVersion {
			if tx.Bucket(bRender) != nil {
				if err := tx.DeleteBucket(bRender); err != nil {
					return err
				}
			}
			if err := info.Put(kSchema, []byte(schemaVersion)); err != nil {
				return err
			}
		}
		_, err = tx.CreateBucketIfNotExists(bRender)
		return err
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}
