// Package writer routes writing-assistant prompts to the configured AI
// backend and substitutes mock content whenever that backend fails.
package writer

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/llm"
	"github.com/nulzo/scribe/internal/llm/mock"
	"github.com/nulzo/scribe/internal/store/model"
	"github.com/nulzo/scribe/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Recorder receives an audit entry for every generation.
type Recorder interface {
	Log(log *model.GenerationLog)
}

type nopRecorder struct{}

func (nopRecorder) Log(*model.GenerationLog) {}

// Recorders fans each entry out to every recorder in order.
type Recorders []Recorder

func (rs Recorders) Log(log *model.GenerationLog) {
	for _, r := range rs {
		r.Log(log)
	}
}

type Option func(*Service)

// WithRecorder sends generation logs to r. Repeating the option adds
// recorders rather than replacing them.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r == nil {
			return
		}
		switch cur := s.recorder.(type) {
		case nopRecorder:
			s.recorder = r
		case Recorders:
			s.recorder = append(cur, r)
		default:
			s.recorder = Recorders{cur, r}
		}
	}
}

// WithProvider bypasses the registry and routes to p.
func WithProvider(p llm.Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// Service is safe for concurrent use; nothing is mutated after NewService.
type Service struct {
	configured string
	mockMode   bool
	provider   llm.Provider // nil routes everything to mock
	fallback   *mock.Provider
	logger     *zap.Logger
	recorder   Recorder
	tracer     trace.Tracer
}

// NewService resolves the configured provider once. Mock mode, the mock
// provider, and unknown provider names all route to mock content.
func NewService(cfg config.AIConfig, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		configured: cfg.Provider,
		mockMode:   cfg.MockMode,
		fallback:   mock.New(),
		logger:     logger,
		recorder:   nopRecorder{},
		tracer:     otel.Tracer("github.com/nulzo/scribe/internal/writer"),
	}

	if !cfg.MockMode && cfg.Provider != string(llm.Mock) {
		if factory, err := llm.Get(cfg.Provider); err == nil {
			p, err := factory(cfg)
			if err != nil {
				logger.Warn("Failed to initialize AI provider, using mock content",
					zap.String("provider", cfg.Provider),
					zap.Error(err),
				)
			} else {
				s.provider = p
			}
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.mockMode {
		s.provider = nil
	}
	if s.provider != nil && s.provider.Name() == string(llm.Mock) {
		s.provider = nil
	}

	return s
}

// Provider is the name of the strategy calls are routed to.
func (s *Service) Provider() string {
	if s.provider == nil {
		return s.fallback.Name()
	}
	return s.provider.Name()
}

func (s *Service) Model() string {
	if s.provider == nil {
		return s.fallback.Model()
	}
	return s.provider.Model()
}

// ConfiguredProvider is the provider name as read from configuration.
func (s *Service) ConfiguredProvider() string {
	return s.configured
}

func (s *Service) MockMode() bool {
	return s.mockMode
}

// GenerateContent never fails: any backend error is logged and replaced by
// mock content, with the reason recorded on the outcome.
func (s *Service) GenerateContent(ctx context.Context, prompt string, opts api.GenerationOptions) Outcome {
	return s.generate(ctx, "generate", prompt, opts)
}

func (s *Service) generate(ctx context.Context, operation, prompt string, opts api.GenerationOptions) Outcome {
	ctx, span := s.tracer.Start(ctx, "writer."+operation,
		trace.WithAttributes(attribute.String("ai.configured_provider", s.configured)),
	)
	defer span.End()

	start := time.Now()
	outcome := s.dispatch(ctx, prompt, opts)
	latency := time.Since(start)

	span.SetAttributes(
		attribute.String("ai.provider", outcome.Provider),
		attribute.String("ai.model", outcome.Model),
	)
	if outcome.Fallback != nil {
		span.SetAttributes(attribute.String("ai.fallback_reason", string(outcome.Fallback.Reason)))
		span.SetStatus(codes.Error, outcome.Fallback.Error())
	}

	s.record(operation, prompt, outcome, latency)

	return outcome
}

func (s *Service) dispatch(ctx context.Context, prompt string, opts api.GenerationOptions) Outcome {
	req := &api.GenerationRequest{Prompt: prompt, Options: opts}

	if s.provider == nil {
		return Outcome{GenerationResult: *mock.Result(prompt)}
	}

	res, err := s.provider.Generate(ctx, req)
	if err != nil {
		reason, status := Classify(err)

		fields := []zap.Field{
			zap.String("provider", s.provider.Name()),
			zap.String("reason", string(reason)),
			zap.Error(err),
		}
		if status != 0 {
			fields = append(fields, zap.Int("status", status))
		}
		s.logger.Warn("AI provider request failed, falling back to mock content", fields...)

		return Outcome{
			GenerationResult: *mock.Result(prompt),
			Fallback: &Fallback{
				Reason:     reason,
				Provider:   s.provider.Name(),
				StatusCode: status,
				Err:        err,
			},
		}
	}

	out := *res
	if out.Content == "" {
		out.Content = api.PlaceholderContent
	}
	return Outcome{GenerationResult: out}
}

func (s *Service) record(operation, prompt string, outcome Outcome, latency time.Duration) {
	entry := &model.GenerationLog{
		ID:                 uuid.NewString(),
		Operation:          operation,
		ConfiguredProvider: s.configured,
		Provider:           outcome.Provider,
		Model:              outcome.Model,
		FallbackReason:     outcome.FallbackReason(),
		PromptChars:        utf8.RuneCountInString(prompt),
		ContentChars:       utf8.RuneCountInString(outcome.Content),
		LatencyMS:          latency.Milliseconds(),
		CreatedAt:          time.Now().UTC(),
	}
	if outcome.Usage != nil {
		entry.PromptTokens = outcome.Usage.PromptTokens
		entry.CompletionTokens = outcome.Usage.CompletionTokens
	}

	s.recorder.Log(entry)
}
