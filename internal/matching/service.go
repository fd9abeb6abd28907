package matching

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/records"
)

const tracerName = "github.com/spigell/hh-matcher/internal/matching"

var tracer = otel.Tracer(tracerName)

// UpsertRequest is the inbound contract for indexing one record.
type UpsertRequest struct {
	RecordID   string         `json:"record_id"`
	Record     records.Fields `json:"record"`
	RecordType string         `json:"record_type"`
}

// SearchRequest is the inbound contract for matching one record.
type SearchRequest struct {
	RecordID        string         `json:"record_id"`
	Record          records.Fields `json:"record"`
	RecordType      string         `json:"record_type"`
	TopK            int            `json:"top_k,omitempty"`
	GenerateReasons bool           `json:"generate_reasons,omitempty"`
}

// UpsertResponse is returned after a successful upsert.
type UpsertResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"record_id"`
}

// SearchResponse is returned after a successful search.
type SearchResponse struct {
	Success  bool        `json:"success"`
	RecordID string      `json:"record_id"`
	Matches  []Candidate `json:"matches"`
}

// Service sequences validation, indexing, retrieval and annotation.
type Service struct {
	indexer    *Indexer
	retriever  *Retriever
	annotator  *Annotator
	maxReasons int
	logger     *zap.Logger
}

func NewService(indexer *Indexer, retriever *Retriever, annotator *Annotator, maxReasons int, log *zap.Logger) *Service {
	if maxReasons <= 0 {
		maxReasons = DefaultMaxReasons
	}
	return &Service{
		indexer:    indexer,
		retriever:  retriever,
		annotator:  annotator,
		maxReasons: maxReasons,
		logger:     logger.OrNop(log),
	}
}

func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*UpsertResponse, error) {
	ctx, span := tracer.Start(ctx, "matching.upsert", trace.WithAttributes(
		attribute.String("record.id", req.RecordID),
		attribute.String("record.type", req.RecordType),
	))
	defer span.End()

	rec, err := toRecord(req.RecordID, req.Record, req.RecordType)
	if err == nil {
		err = s.indexer.Upsert(ctx, rec)
	}
	if err != nil {
		fail(span, err)
		return nil, err
	}

	return &UpsertResponse{Success: true, RecordID: rec.ID}, nil
}

func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "matching.search", trace.WithAttributes(
		attribute.String("record.id", req.RecordID),
		attribute.String("record.type", req.RecordType),
		attribute.Int("top_k", req.TopK),
		attribute.Bool("generate_reasons", req.GenerateReasons),
	))
	defer span.End()

	rec, err := toRecord(req.RecordID, req.Record, req.RecordType)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	matches, err := s.retriever.Search(ctx, rec, req.TopK)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	if req.GenerateReasons && len(matches) > 0 {
		s.annotator.Annotate(ctx, matches, rec, s.maxReasons)
	}

	span.SetAttributes(attribute.Int("matches", len(matches)))
	s.logger.Info("search served",
		zap.String(logger.FieldRecordID, rec.ID),
		zap.String(logger.FieldRecordType, rec.Type.String()),
		zap.Int("matches", len(matches)),
		zap.Bool("reasons", req.GenerateReasons && s.annotator.Enabled()),
	)

	return &SearchResponse{Success: true, RecordID: rec.ID, Matches: matches}, nil
}

func toRecord(id string, fields records.Fields, recordType string) (records.Record, error) {
	if id == "" || fields == nil || recordType == "" {
		return records.Record{}, validationErrorf("record_id, record and record_type are required")
	}

	t, err := records.ParseType(recordType)
	if err != nil {
		return records.Record{}, &ValidationError{Msg: err.Error()}
	}

	return records.Record{ID: id, Type: t, Fields: fields}, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
