// Package bolt is an embedded, file-backed index backend built on bbolt.
// Every namespace is a bucket; search is a brute-force cosine scan.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/spigell/hh-matcher/internal/embedding"
	"github.com/spigell/hh-matcher/internal/index"
)

type storedEntry struct {
	Vector   []float32         `json:"v"`
	Metadata map[string]string `json:"m,omitempty"`
}

// Store persists entries in a bbolt database file.
type Store struct {
	db       *bbolt.DB
	embedder embedding.Embedder
}

// Open opens (or creates) the database at path.
func Open(path string, embedder embedding.Embedder) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt index %q: %w", path, err)
	}
	return &Store{db: db, embedder: embedder}, nil
}

func (s *Store) Upsert(ctx context.Context, namespace string, e index.Entry) error {
	vector, err := s.embedOne(ctx, e.Text)
	if err != nil {
		return err
	}

	data, err := json.Marshal(storedEntry{Vector: vector, Metadata: e.Metadata})
	if err != nil {
		return fmt.Errorf("encode entry %q: %w", e.ID, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", namespace, err)
		}
		return b.Put([]byte(e.ID), data)
	})
}

func (s *Store) Search(ctx context.Context, namespace, query string, topK int) ([]index.Hit, error) {
	vector, err := s.embedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	var hits []index.Hit
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedEntry
			if err := json.Unmarshal(v, &stored); err != nil {
				// Corrupted entries are skipped; a fresh upsert overwrites them.
				return nil
			}
			hits = append(hits, index.Hit{
				ID:     string(k),
				Score:  index.Cosine(vector, stored.Vector),
				Fields: index.CopyFields(stored.Metadata),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan bucket %q: %w", namespace, err)
	}

	return index.TopK(hits, topK), nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) embedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}
	return vectors[0], nil
}

var _ index.Index = (*Store)(nil)
