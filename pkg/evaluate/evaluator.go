package evaluate

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

const tracerName = "github.com/donaldgifford/bargain-finder/pkg/evaluate"

// maxImages caps how many listing photos are sent to the model.
const maxImages = 4

// Evaluator produces validated fair-value assessments for listings.
type Evaluator struct {
	backend     Backend
	model       string
	temperature float64
	maxTokens   int
	webSearch   bool
	now         func() time.Time
	log         *slog.Logger
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithModel sets the model version stamped on results when the backend
// does not report one.
func WithModel(m string) Option {
	return func(e *Evaluator) {
		e.model = m
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(e *Evaluator) {
		e.temperature = t
	}
}

// WithMaxTokens sets the max output tokens.
func WithMaxTokens(n int) Option {
	return func(e *Evaluator) {
		e.maxTokens = n
	}
}

// WithWebSearch toggles the web_search tool.
func WithWebSearch(on bool) Option {
	return func(e *Evaluator) {
		e.webSearch = on
	}
}

// WithNowFunc overrides the clock used for EvaluatedAt.
func WithNowFunc(fn func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.log = l
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(backend Backend, opts ...Option) *Evaluator {
	e := &Evaluator{
		backend:     backend,
		temperature: 0.2,
		maxTokens:   1024,
		webSearch:   true,
		now:         time.Now,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate asks the model for a fair-value assessment of l. Listings with
// images are evaluated multimodally.
func (e *Evaluator) Evaluate(ctx context.Context, l *domain.Listing) (_ *domain.EvaluationResult, err error) {
	images := l.Images
	if len(images) > maxImages {
		images = images[:maxImages]
	}
	mode := domain.EvaluationTextOnly
	if len(images) > 0 {
		mode = domain.EvaluationMultimodal
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "evaluate")
	span.SetAttributes(
		attribute.String("evaluate.backend", e.backend.Name()),
		attribute.String("evaluate.mode", string(mode)),
		attribute.String("listing.id", l.ID),
	)
	start := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	prompt, err := RenderPrompt(l, len(images) > 0)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("backend_error").Inc()
		return nil, apperr.Wrap(err, "rendering evaluation prompt: "+err.Error(), 0, "")
	}

	resp, err := e.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		Images:      images,
		WebSearch:   e.webSearch,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("backend_error").Inc()
		e.log.Error("evaluation backend failed", "backend", e.backend.Name(), "listing_id", l.ID, "error", err)
		return nil, apperr.Wrap(err, "calling evaluation backend: "+err.Error(), 0, "")
	}

	eval, err := ParseEvaluation(resp.Text)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("invalid_response").Inc()
		e.log.Warn("invalid evaluation response", "listing_id", l.ID, "error", err)
		return nil, err
	}

	used, citations := ExtractWebSearch(resp.Output)
	if used {
		metrics.EvaluationWebSearchTotal.Inc()
	}
	metrics.EvaluationsTotal.WithLabelValues("success").Inc()
	metrics.EvaluationConfidence.Observe(float64(eval.ConfidenceScore))

	model := resp.Model
	if model == "" {
		model = e.model
	}

	e.log.Debug("listing evaluated",
		"listing_id", l.ID,
		"mode", mode,
		"confidence", eval.ConfidenceScore,
		"web_search", used,
		"citations", len(citations),
	)

	return &domain.EvaluationResult{
		Evaluation:         eval,
		ModelVersion:       model,
		PromptVersion:      PromptVersion,
		EvaluationMode:     mode,
		EvaluatedAt:        e.now().UTC(),
		WebSearchUsed:      used,
		WebSearchCitations: citations,
	}, nil
}
