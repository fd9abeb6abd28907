package index

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestTopK(t *testing.T) {
	hits := []Hit{
		{ID: "b", Score: 0.5},
		{ID: "a", Score: 0.9},
		{ID: "c", Score: 0.5},
		{ID: "d", Score: 0.1},
	}

	got := TopK(hits, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})

	assert.Len(t, TopK([]Hit{{ID: "x"}}, 5), 1)
	assert.Empty(t, TopK(nil, 5))
}

func TestUnavailable(t *testing.T) {
	idx := Unavailable{Err: errors.New("qdrant host is required")}

	err := idx.Upsert(context.Background(), "jobs", Entry{ID: "J1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "qdrant host is required")

	hits, err := idx.Search(context.Background(), "jobs", "go", 5)
	assert.Nil(t, hits)
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, Unavailable{}.Upsert(context.Background(), "jobs", Entry{}), ErrNotConfigured)
}

type teapot struct{}

func (teapot) Error() string   { return "teapot" }
func (teapot) HTTPStatus() int { return http.StatusTeapot }

func TestHTTPStatus(t *testing.T) {
	assert.Zero(t, HTTPStatus(nil))
	assert.Zero(t, HTTPStatus(errors.New("plain")))
	assert.Equal(t, http.StatusTeapot, HTTPStatus(fmt.Errorf("wrapped: %w", teapot{})))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(status.Error(codes.Unavailable, "down")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(status.Error(codes.Unauthenticated, "bad key")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(status.Error(codes.Internal, "boom")))
}
