package usage

import "time"

// Outcome records whether the backend produced the response text.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
)

// Record is one ledger row. It deliberately has no field for message text,
// history or inventory context.
type Record struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id,omitempty"`
	Mode         string    `json:"mode"`
	HasData      bool      `json:"has_data"`
	Outcome      Outcome   `json:"outcome"`
	Model        string    `json:"model,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	LatencyMS    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary aggregates the ledger.
type Summary struct {
	Requests     int64   `json:"requests"`
	Fallbacks    int64   `json:"fallbacks"`
	WithData     int64   `json:"with_data"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}
