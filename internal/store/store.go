// Package store persists harvest state in a bbolt file: the record ids each
// source has already published and extracted articles keyed by story url.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	seenBucket     = []byte("seen")
	articlesBucket = []byte("articles")
)

// Store is a bbolt-backed harvest state store. It is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the store file at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{seenBucket, articlesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Unseen returns the records of sourceID whose ids have not been marked seen,
// preserving order.
func (s *Store) Unseen(sourceID string, records []domain.SummaryRecord) ([]domain.SummaryRecord, error) {
	out := make([]domain.SummaryRecord, 0, len(records))
	err := s.db.View(func(tx *bolt.Tx) error {
		src := tx.Bucket(seenBucket).Bucket([]byte(sourceID))
		for _, rec := range records {
			if src != nil && src.Get([]byte(rec.ID)) != nil {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read seen ids for %s: %w", sourceID, err)
	}
	return out, nil
}

// MarkSeen records ids as published for sourceID. Empty ids are ignored.
func (s *Store) MarkSeen(sourceID string, ids ...string) error {
	if sourceID == "" {
		return errors.New("source id is empty")
	}
	stamp := []byte(s.now().UTC().Format(time.RFC3339))
	return s.db.Update(func(tx *bolt.Tx) error {
		src, err := tx.Bucket(seenBucket).CreateBucketIfNotExists([]byte(sourceID))
		if err != nil {
			return fmt.Errorf("create seen bucket for %s: %w", sourceID, err)
		}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if err := src.Put([]byte(id), stamp); err != nil {
				return fmt.Errorf("mark %s seen: %w", id, err)
			}
		}
		return nil
	})
}

// GetArticle returns the cached article for storyURL.
func (s *Store) GetArticle(storyURL string) (domain.ArticleRecord, bool, error) {
	var (
		rec   domain.ArticleRecord
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(articlesBucket).Get([]byte(storyURL))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return domain.ArticleRecord{}, false, fmt.Errorf("read cached article: %w", err)
	}
	return rec, found, nil
}

// PutArticle caches rec under storyURL.
func (s *Store) PutArticle(storyURL string, rec domain.ArticleRecord) error {
	if storyURL == "" {
		return errors.New("story url is empty")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).Put([]byte(storyURL), payload)
	})
}
