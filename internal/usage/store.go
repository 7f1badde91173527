package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finxan/ai-service/internal/db"
)

// Store persists usage records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a usage record. If rec.ID is empty a UUID is generated and
// a zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_records (
			id, session_id, mode, has_data, outcome, model,
			input_tokens, output_tokens, cost_usd, latency_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.Mode,
		rec.HasData,
		string(rec.Outcome),
		rec.Model,
		rec.InputTokens,
		rec.OutputTokens,
		rec.CostUSD,
		rec.LatencyMS,
		rec.CreatedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting usage record: %w", err)
	}
	return nil
}

// Filter controls which records List and Summarize consider.
type Filter struct {
	SessionID string
	Mode      string
	Since     *time.Time
	Limit     int
	Offset    int
}

func (f Filter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, f.Mode)
	}
	if f.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC().Format(time.DateTime))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns records matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	where, args := filter.where()
	query := `SELECT id, session_id, mode, has_data, outcome, model,
		input_tokens, output_tokens, cost_usd, latency_ms, created_at
		FROM usage_records` + where + " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec     Record
			outcome string
			ts      string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Mode, &rec.HasData, &outcome, &rec.Model,
			&rec.InputTokens, &rec.OutputTokens, &rec.CostUSD, &rec.LatencyMS, &ts,
		); err != nil {
			return nil, fmt.Errorf("scanning usage record: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		rec.CreatedAt = parseTime(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summarize aggregates the records matching the filter. Limit and Offset are
// ignored.
func (s *Store) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	where, args := filter.where()
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN outcome = 'fallback' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(has_data), 0),
		COALESCE(SUM(input_tokens), 0),
		COALESCE(SUM(output_tokens), 0),
		COALESCE(SUM(cost_usd), 0),
		COALESCE(AVG(latency_ms), 0)
		FROM usage_records` + where

	var sum Summary
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&sum.Requests, &sum.Fallbacks, &sum.WithData,
		&sum.InputTokens, &sum.OutputTokens, &sum.CostUSD, &sum.AvgLatencyMS,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing usage records: %w", err)
	}
	return &sum, nil
}

// DeleteBefore removes records older than the given time and returns the
// number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM usage_records WHERE created_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old usage records: %w", err)
	}
	return res.RowsAffected()
}

func parseTime(ts string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}
