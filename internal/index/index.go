// Package index defines the contract of the external vector search engine.
// Implementations embed the text themselves; callers only deal with text,
// identifiers and string metadata.
package index

import (
	"context"
	"errors"
	"fmt"
)

// Entry is a single record prepared for the index.
type Entry struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Hit is a nearest-neighbor match returned by Search, best first.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]string
}

// Index stores entries per namespace and searches them by text similarity.
type Index interface {
	// Upsert inserts the entry into namespace, replacing any entry with the same id.
	Upsert(ctx context.Context, namespace string, entry Entry) error
	// Search returns up to topK entries of namespace closest to query, best first.
	Search(ctx context.Context, namespace, query string, topK int) ([]Hit, error)
}

// ErrNotConfigured marks an index that cannot be used with the current configuration.
var ErrNotConfigured = errors.New("vector index is not configured")

// Unavailable is an Index standing in for a backend that could not be
// configured. Every call fails with the configuration error, so the problem
// surfaces on first use instead of at startup.
type Unavailable struct {
	Err error
}

func (u Unavailable) Upsert(context.Context, string, Entry) error {
	return u.err()
}

func (u Unavailable) Search(context.Context, string, string, int) ([]Hit, error) {
	return nil, u.err()
}

func (u Unavailable) err() error {
	if u.Err == nil {
		return ErrNotConfigured
	}
	if errors.Is(u.Err, ErrNotConfigured) {
		return u.Err
	}
	return fmt.Errorf("%w: %w", ErrNotConfigured, u.Err)
}
