// Package memory is an in-process index backend for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/spigell/hh-matcher/internal/embedding"
	"github.com/spigell/hh-matcher/internal/index"
)

type entry struct {
	vector   []float32
	metadata map[string]string
}

// Store keeps entries per namespace and searches them by brute force.
type Store struct {
	embedder embedding.Embedder

	mu         sync.RWMutex
	namespaces map[string]map[string]entry
}

func New(embedder embedding.Embedder) *Store {
	return &Store{
		embedder:   embedder,
		namespaces: make(map[string]map[string]entry),
	}
}

func (s *Store) Upsert(ctx context.Context, namespace string, e index.Entry) error {
	vectors, err := s.embedder.Embed(ctx, []string{e.Text})
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.namespaces[namespace]
	if !ok {
		entries = make(map[string]entry)
		s.namespaces[namespace] = entries
	}
	entries[e.ID] = entry{vector: vectors[0], metadata: index.CopyFields(e.Metadata)}
	return nil
}

func (s *Store) Search(ctx context.Context, namespace, query string, topK int) ([]index.Hit, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.namespaces[namespace]
	hits := make([]index.Hit, 0, len(entries))
	for id, e := range entries {
		hits = append(hits, index.Hit{
			ID:     id,
			Score:  index.Cosine(vectors[0], e.vector),
			Fields: index.CopyFields(e.metadata),
		})
	}
	return index.TopK(hits, topK), nil
}

// Len returns the number of entries stored in namespace.
func (s *Store) Len(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces[namespace])
}

var _ index.Index = (*Store)(nil)
