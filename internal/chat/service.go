package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/finxan/ai-service/internal/conversation"
	"github.com/finxan/ai-service/internal/gateway"
	"github.com/finxan/ai-service/internal/inventory"
	"github.com/finxan/ai-service/internal/llm"
	"github.com/finxan/ai-service/internal/logging"
	"github.com/finxan/ai-service/internal/metrics"
	"github.com/finxan/ai-service/internal/prompt"
	"github.com/finxan/ai-service/internal/usage"
)

// Service runs the chat pipeline: normalize the context, compose the system
// prompt, window the history, assemble the conversation, call the backend
// and map the result. It keeps no per-request state.
type Service struct {
	gen         Generator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	ledger      Recorder
	defaultMode Mode
	model       string
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for backend failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLedger enables the usage ledger.
func WithLedger(r Recorder) Option {
	return func(s *Service) { s.ledger = r }
}

// WithDefaultMode sets the mode used when a request names none. An empty
// mode keeps the chat default.
func WithDefaultMode(m Mode) Option {
	return func(s *Service) {
		if m != "" {
			s.defaultMode = m
		}
	}
}

// WithModel names the model used for cost estimates when the backend does
// not report one.
func WithModel(model string) Option {
	return func(s *Service) { s.model = model }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service around the given backend.
func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:         gen,
		logger:      logging.Discard(),
		defaultMode: ModeChat,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComposePrompt returns the system prompt for a raw context without calling
// the backend.
func ComposePrompt(raw inventory.Raw) string {
	return prompt.Compose(inventory.Normalize(raw))
}

// Send answers one chat message. The only error it returns is
// ErrEmptyMessage; backend failures produce the fallback response.
func (s *Service) Send(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}

	normalized := inventory.Normalize(req.Context)
	conv := conversation.Assemble(prompt.Compose(normalized), req.History, req.Message)

	done := s.metrics.TrackChat(string(mode))
	start := s.now()

	var (
		res *gateway.Result
		err error
	)
	switch mode {
	case ModePrompt:
		res, err = s.gen.GenerateContent(ctx, conv.Flatten())
	default:
		history, message := conv.Seeded()
		res, err = s.gen.SendMessage(ctx, history, message)
	}
	latency := s.now().Sub(start)

	outcome := usage.OutcomeOK
	if err != nil {
		outcome = usage.OutcomeFallback
		s.logger.ErrorContext(ctx, "generation failed",
			slog.String("mode", string(mode)),
			slog.String("session_id", req.SessionID),
			slog.Bool("has_data", normalized.HasData),
			slog.Any("error", err),
		)
	}
	done(string(outcome))

	resp := MapResult(res, err, normalized.HasData)
	resp.SessionID = req.SessionID
	resp.Timestamp = s.now().UTC()

	s.record(ctx, usage.Record{
		SessionID: req.SessionID,
		Mode:      string(mode),
		HasData:   normalized.HasData,
		Outcome:   outcome,
		LatencyMS: latency.Milliseconds(),
	}, res)

	return &resp, nil
}

// record writes a ledger row. Failures are logged and swallowed.
func (s *Service) record(ctx context.Context, rec usage.Record, res *gateway.Result) {
	if s.ledger == nil {
		return
	}
	rec.Model = s.model
	if res != nil {
		if res.Model != "" {
			rec.Model = res.Model
		}
		rec.InputTokens = res.InputTokens
		rec.OutputTokens = res.OutputTokens
		rec.CostUSD = llm.EstimateCost(rec.Model, res.InputTokens, res.OutputTokens)
	}
	rec.CreatedAt = s.now()

	// The ledger write must not be cut short by a client disconnect.
	if err := s.ledger.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.WarnContext(ctx, "recording usage failed", slog.Any("error", err))
	}
}
