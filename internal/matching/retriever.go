package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/records"
)

// Retriever finds the closest records of the opposite population.
type Retriever struct {
	index       index.Index
	defaultTopK int
	logger      *zap.Logger
}

func NewRetriever(idx index.Index, defaultTopK int, log *zap.Logger) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &Retriever{index: idx, defaultTopK: defaultTopK, logger: logger.OrNop(log)}
}

// Search returns up to topK candidates in the order the index ranked them.
// A non-positive topK selects the default.
func (r *Retriever) Search(ctx context.Context, rec records.Record, topK int) ([]Candidate, error) {
	if err := rec.Validate(); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if topK <= 0 {
		topK = r.defaultTopK
	}

	profile, err := rec.Profile()
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	namespace := rec.Type.Opposite().Partition()
	log := logger.WithFields(r.logger, logger.RecordFields(rec.ID, rec.Type.String(), namespace)...)

	hits, err := r.index.Search(ctx, namespace, profile.Text(), topK)
	if err != nil {
		log.Error("search failed", zap.Error(err))
		return nil, upstreamError("search", rec, err)
	}

	candidates := toCandidates(hits)
	log.Debug("search completed", zap.Int("hits", len(hits)), zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// toCandidates keeps upstream order and drops hits without an id.
func toCandidates(hits []index.Hit) []Candidate {
	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == "" {
			continue
		}
		metadata := hit.Fields
		if metadata == nil {
			metadata = map[string]string{}
		}
		candidates = append(candidates, Candidate{
			ID:       hit.ID,
			RawScore: hit.Score,
			Score:    NormalizeScore(hit.Score),
			Metadata: metadata,
		})
	}
	return candidates
}
