package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/spigell/hh-matcher/internal/embedding"
	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/index/memory"
	"github.com/spigell/hh-matcher/internal/matching"
)

type failingIndex struct {
	err error
}

func (f failingIndex) Upsert(context.Context, string, index.Entry) error { return f.err }

func (f failingIndex) Search(context.Context, string, string, int) ([]index.Hit, error) {
	return nil, f.err
}

func newServer(t *testing.T, idx index.Index) *httptest.Server {
	t.Helper()
	svc := matching.NewService(
		matching.NewIndexer(idx, nil),
		matching.NewRetriever(idx, 0, nil),
		matching.NewAnnotator(nil, matching.AnnotatorConfig{}, nil),
		0,
		nil,
	)
	srv := httptest.NewServer(New(svc, nil).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestUpsertAndSearch(t *testing.T) {
	srv := newServer(t, memory.New(embedding.NewHashing(64)))

	code, body := post(t, srv, "/api/upsert", `{"record_id":"J1","record_type":"JOB","record":{"title":"Go developer","location":"Tokyo"}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "record_id": "J1"}, body)

	code, body = post(t, srv, "/api/search", `{"record_id":"S1","record_type":"JOBSEEKER","record":{"skills":"Go","desired_location":"Tokyo"},"generate_reasons":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "S1", body["record_id"])

	matches, ok := body["matches"].([]any)
	require.True(t, ok)
	require.Len(t, matches, 1)

	match := matches[0].(map[string]any)
	assert.Equal(t, "J1", match["id"])
	assert.Contains(t, match, "reason")
	assert.Nil(t, match["reason"])
}

func TestSearchEmptyPartition(t *testing.T) {
	srv := newServer(t, memory.New(embedding.NewHashing(16)))

	code, body := post(t, srv, "/api/search", `{"record_id":"J1","record_type":"JOB","record":{}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["matches"])
}

func TestBadRequests(t *testing.T) {
	srv := newServer(t, memory.New(embedding.NewHashing(16)))

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "upsert missing type", path: "/api/upsert", body: `{"record_id":"J1","record":{}}`},
		{name: "upsert missing record", path: "/api/upsert", body: `{"record_id":"J1","record_type":"JOB"}`},
		{name: "search missing id", path: "/api/search", body: `{"record_type":"JOB","record":{}}`},
		{name: "invalid json", path: "/api/search", body: `{"record_id":`},
		{name: "empty body", path: "/api/upsert", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, srv, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUpstreamStatusIsPropagated(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unavailable", err: status.Error(codes.Unavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "unauthenticated", err: status.Error(codes.Unauthenticated, "bad key"), want: http.StatusUnauthorized},
		{name: "unknown", err: assert.AnError, want: http.StatusInternalServerError},
		{name: "not configured", err: index.ErrNotConfigured, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, failingIndex{err: tt.err})

			code, body := post(t, srv, "/api/upsert", `{"record_id":"J1","record_type":"JOB","record":{}}`)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, body["error"])

			code, _ = post(t, srv, "/api/search", `{"record_id":"J1","record_type":"JOB","record":{}}`)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newServer(t, memory.New(embedding.NewHashing(16)))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
