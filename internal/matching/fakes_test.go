package matching

import (
	"context"
	"errors"
	"sync"

	"github.com/spigell/hh-matcher/internal/index"
)

type upsertCall struct {
	namespace string
	entry     index.Entry
}

type searchCall struct {
	namespace string
	query     string
	topK      int
}

type fakeIndex struct {
	mu      sync.Mutex
	upserts []upsertCall
	searchs []searchCall
	hits    []index.Hit
	err     error
}

func (f *fakeIndex) Upsert(_ context.Context, namespace string, e index.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, upsertCall{namespace: namespace, entry: e})
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, namespace, query string, topK int) ([]index.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchs = append(f.searchs, searchCall{namespace: namespace, query: query, topK: topK})
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	// fail lists prompt call numbers (1-based) that return an error.
	fail map[int]bool
	text string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.fail[len(f.prompts)] {
		return "", errors.New("generation failed")
	}
	if f.text != "" {
		return f.text, nil
	}
	return "  Strong overlap in Go.\n", nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
