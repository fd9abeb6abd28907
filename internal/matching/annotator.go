package matching

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/records"
	"github.com/spigell/hh-matcher/internal/utils"
)

// DefaultMaxReasons is the number of top candidates that receive a reason.
const DefaultMaxReasons = 3

const defaultMaxLogLength = 200

//go:embed prompt.md
var promptTemplate string

// Generator produces a short completion for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// AnnotatorConfig tunes reason generation.
type AnnotatorConfig struct {
	// Concurrency is the number of generation calls in flight. Values below 2 keep calls sequential.
	Concurrency int
	// RequestsPerMinute bounds generation calls across requests. Zero disables the limit.
	RequestsPerMinute int
	MaxLogLength      int
	Model             string
}

// Annotator attaches best-effort reasons to the top ranked candidates.
type Annotator struct {
	generator   Generator
	limiter     *rate.Limiter
	concurrency int
	maxLogLen   int
	logger      *zap.Logger
}

// reasonOutcome is the result of annotating one candidate.
type reasonOutcome struct {
	reason *string
	err    error
}

// NewAnnotator returns an Annotator. A nil generator disables reason generation.
func NewAnnotator(generator Generator, cfg AnnotatorConfig, log *zap.Logger) *Annotator {
	a := &Annotator{
		generator:   generator,
		concurrency: cfg.Concurrency,
		maxLogLen:   cfg.MaxLogLength,
		logger:      logger.WithAIFields(log, "gemini", cfg.Model),
	}
	if a.concurrency < 1 {
		a.concurrency = 1
	}
	if a.maxLogLen <= 0 {
		a.maxLogLen = defaultMaxLogLength
	}
	if cfg.RequestsPerMinute > 0 {
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return a
}

// Enabled reports whether a generator is configured.
func (a *Annotator) Enabled() bool {
	return a != nil && a.generator != nil
}

// Annotate sets the reason of the first maxReasons candidates and clears the rest.
// Failures never propagate: the affected candidate keeps a nil reason.
func (a *Annotator) Annotate(ctx context.Context, matches []Candidate, rec records.Record, maxReasons int) {
	if maxReasons < 0 {
		maxReasons = 0
	}

	n := min(maxReasons, len(matches))
	outcomes := make([]reasonOutcome, len(matches))
	if n > 0 && a.Enabled() {
		a.generate(ctx, matches[:n], rec, outcomes[:n])
	}

	for i := range matches {
		matches[i].Reason = outcomes[i].reason
	}
}

func (a *Annotator) generate(ctx context.Context, matches []Candidate, rec records.Record, outcomes []reasonOutcome) {
	querySummary := ""
	if profile, err := rec.Profile(); err == nil {
		querySummary = profile.Summary()
	}
	candidateType := rec.Type.Opposite()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(a.concurrency, len(matches)))

	for i := range matches {
		g.Go(func() error {
			outcomes[i] = a.reason(gctx, rec, querySummary, candidateType, matches[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, outcome := range outcomes {
		if outcome.err != nil {
			a.logger.Warn("reason generation failed",
				zap.String(logger.FieldRecordID, rec.ID),
				zap.String("candidate_id", matches[i].ID),
				zap.Error(outcome.err),
			)
		}
	}
}

func (a *Annotator) reason(ctx context.Context, rec records.Record, querySummary string, candidateType records.Type, c Candidate) reasonOutcome {
	ctx, span := tracer.Start(ctx, "matching.reason")
	defer span.End()
	span.SetAttributes(attribute.String("candidate.id", c.ID))

	outcome := a.tryReason(ctx, rec, querySummary, candidateType, c)
	if outcome.err != nil {
		span.RecordError(outcome.err)
		span.SetStatus(codes.Error, outcome.err.Error())
	}
	return outcome
}

func (a *Annotator) tryReason(ctx context.Context, rec records.Record, querySummary string, candidateType records.Type, c Candidate) reasonOutcome {
	candidate, err := records.NewProfile(candidateType, records.FieldsFromMetadata(c.Metadata))
	if err != nil {
		return reasonOutcome{err: err}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return reasonOutcome{err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	prompt := buildPrompt(rec.Type, querySummary, candidateType, candidate.Summary(), c.Score)
	a.logger.Debug("gemini generate content request",
		zap.String(logger.FieldRecordID, rec.ID),
		zap.String("candidate_id", c.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return reasonOutcome{err: err}
	}

	a.logger.Debug("gemini generate content response",
		zap.String("candidate_id", c.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	reason := strings.Join(strings.Fields(raw), " ")
	if reason == "" {
		return reasonOutcome{err: fmt.Errorf("empty completion for candidate %s", c.ID)}
	}
	return reasonOutcome{reason: &reason}
}

func buildPrompt(queryType records.Type, querySummary string, candidateType records.Type, candidateSummary string, score float64) string {
	return strings.NewReplacer(
		"{{QUERY_TYPE}}", queryType.String(),
		"{{QUERY_SUMMARY}}", querySummary,
		"{{CANDIDATE_TYPE}}", candidateType.String(),
		"{{CANDIDATE_SUMMARY}}", candidateSummary,
		"{{SCORE}}", strconv.FormatFloat(score, 'f', 1, 64),
	).Replace(promptTemplate)
}
