package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finxan/ai-service/internal/gateway"
	"github.com/finxan/ai-service/internal/prompt"
	"github.com/finxan/ai-service/internal/usage"
)

// ErrInsightsUnavailable is returned when insights could not be generated.
// The cause is logged, never returned.
var ErrInsightsUnavailable = errors.New("failed to generate insights")

// InsightsRequest asks for insights over raw inventory records.
type InsightsRequest struct {
	UserID       string
	Records      []map[string]any
	AnalysisType string
}

// Insights is the parsed backend answer.
type Insights struct {
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// GenerateInsights composes the insights prompt and asks the backend for a
// JSON answer.
func (s *Service) GenerateInsights(ctx context.Context, req InsightsRequest) (*Insights, error) {
	text, err := prompt.ComposeInsights(req.Records, req.AnalysisType)
	if err != nil {
		return nil, fmt.Errorf("composing insights prompt: %w", err)
	}

	done := s.metrics.TrackChat("insights")
	start := s.now()
	res, err := s.gen.GenerateContent(ctx, text, gateway.WithJSON())
	latency := s.now().Sub(start)

	var out *Insights
	if err == nil {
		out, err = parseInsights(res.Text)
	}

	outcome := usage.OutcomeOK
	if err != nil {
		outcome = usage.OutcomeFallback
		s.logger.ErrorContext(ctx, "insights generation failed",
			slog.String("analysis_type", req.AnalysisType),
			slog.Any("error", err),
		)
	}
	done(string(outcome))
	s.record(ctx, usage.Record{
		Mode:      "insights",
		HasData:   len(req.Records) > 0,
		Outcome:   outcome,
		LatencyMS: latency.Milliseconds(),
	}, res)

	if err != nil {
		return nil, ErrInsightsUnavailable
	}
	out.GeneratedAt = s.now().UTC()
	return out, nil
}

func parseInsights(text string) (*Insights, error) {
	text = strings.TrimSpace(text)
	// Some models wrap JSON in a fenced block even in JSON mode.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	var out Insights
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decoding insights json: %w", err)
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return &out, nil
}
