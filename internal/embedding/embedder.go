// Package embedding turns text into vectors for the index backends that do
// not embed server-side.
package embedding

import "context"

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}
