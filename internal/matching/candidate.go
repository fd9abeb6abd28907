package matching

import "math"

// DefaultTopK is the number of candidates returned when the caller does not ask for a count.
const DefaultTopK = 5

// Candidate is one ranked match from the opposite population.
type Candidate struct {
	ID       string            `json:"id"`
	RawScore float64           `json:"raw_score"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
	Reason   *string           `json:"reason"`
}

// NormalizeScore converts a similarity in [0,1] into a percentage with one decimal.
// Values outside the range are clamped.
func NormalizeScore(raw float64) float64 {
	if math.IsNaN(raw) || raw < 0 {
		raw = 0
	}
	if raw > 1 {
		raw = 1
	}
	return math.Round(raw*1000) / 10
}
