package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/records"
)

// Indexer writes records into the partition of their type.
type Indexer struct {
	index  index.Index
	logger *zap.Logger
}

func NewIndexer(idx index.Index, log *zap.Logger) *Indexer {
	return &Indexer{index: idx, logger: logger.OrNop(log)}
}

// Upsert stores rec, replacing any previous version with the same id.
func (i *Indexer) Upsert(ctx context.Context, rec records.Record) error {
	if err := rec.Validate(); err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	profile, err := rec.Profile()
	if err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	namespace := rec.Type.Partition()
	log := logger.WithFields(i.logger, logger.RecordFields(rec.ID, rec.Type.String(), namespace)...)

	entry := index.Entry{
		ID:       rec.ID,
		Text:     profile.Text(),
		Metadata: records.SanitizeMetadata(rec.Fields, rec.Type),
	}

	if err := i.index.Upsert(ctx, namespace, entry); err != nil {
		log.Error("upsert failed", zap.Error(err))
		return upstreamError("upsert", rec, err)
	}

	log.Debug("record upserted", zap.Int("metadata_fields", len(entry.Metadata)))
	return nil
}
