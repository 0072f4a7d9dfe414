package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"faqbot/internal/domain"
	"go.etcd.io/bbolt"
)

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
	keyManifest   = []byte("manifest")
)

var ErrNoManifest = errors.New("knowledge base has no manifest; run 'faqbot build' first")

// BoltStore persists the knowledge-base artifact: the ordered entries with
// their embeddings and the manifest describing the encoder that produced them.
type BoltStore struct {
	db *bbolt.DB
}

type storedEntry struct {
	Question string    `json:"q"`
	Answer   string    `json:"a"`
	Label    string    `json:"l,omitempty"`
	Vector   []float32 `json:"v"`
}

// NewBoltStore opens (or creates) a writable artifact.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntries, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// OpenReadOnly opens an existing artifact for serving. Several processes may
// hold it open at once.
func OpenReadOnly(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0400, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// WriteKnowledgeBase replaces the stored entries and manifest in a single
// transaction, so readers never observe a half-written artifact.
func (s *BoltStore) WriteKnowledgeBase(manifest domain.Manifest, entries []domain.KnowledgeEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketEntries) != nil {
			if err := tx.DeleteBucket(bucketEntries); err != nil {
				return fmt.Errorf("failed to clear entries: %w", err)
			}
		}
		b, err := tx.CreateBucket(bucketEntries)
		if err != nil {
			return fmt.Errorf("failed to create entries bucket: %w", err)
		}

		for i, e := range entries {
			data, err := json.Marshal(storedEntry{
				Question: e.Question,
				Answer:   e.Answer,
				Label:    e.Label,
				Vector:   e.Embedding,
			})
			if err != nil {
				return err
			}
			if err := b.Put(positionKey(i), data); err != nil {
				return err
			}
		}

		data, err := json.Marshal(manifest)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyManifest, data)
	})
}

// Manifest returns the stored manifest.
func (s *BoltStore) Manifest() (domain.Manifest, error) {
	var m domain.Manifest
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return ErrNoManifest
		}
		data := b.Get(keyManifest)
		if data == nil {
			return ErrNoManifest
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("corrupt manifest: %w", err)
		}
		return nil
	})
	return m, err
}

// LoadEntries returns all entries in their stored order. A corrupt entry is
// an error: a partially loaded knowledge base would silently shift the
// positions that numbered follow-ups refer to.
func (s *BoltStore) LoadEntries() ([]domain.KnowledgeEntry, error) {
	var entries []domain.KnowledgeEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		if b == nil {
			return fmt.Errorf("knowledge base has no entries bucket")
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedEntry
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("corrupt entry %d: %w", binary.BigEndian.Uint32(k), err)
			}
			entries = append(entries, domain.KnowledgeEntry{
				Question:  stored.Question,
				Answer:    stored.Answer,
				Label:     stored.Label,
				Embedding: stored.Vector,
			})
			return nil
		})
	})
	return entries, err
}

// Count returns the number of stored entries.
func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketEntries); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// positionKey encodes i big-endian so bbolt's byte ordering matches entry order.
func positionKey(i int) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(i))
	return key
}
