package matching

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{raw: 0.873, want: 87.3},
		{raw: 0.8765, want: 87.7},
		{raw: 0, want: 0},
		{raw: 1, want: 100},
		{raw: 1.2, want: 100},
		{raw: -0.3, want: 0},
		{raw: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeScore(tt.raw), 1e-9, "raw %v", tt.raw)
	}
}

func TestCandidateSerializesNullReason(t *testing.T) {
	data, err := json.Marshal(Candidate{ID: "J1", RawScore: 0.5, Score: 50, Metadata: map[string]string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"J1","raw_score":0.5,"score":50,"metadata":{},"reason":null}`, string(data))
}
