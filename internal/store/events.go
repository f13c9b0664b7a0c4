package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates token usage per purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// EventRepo records and queries LLM request events.
type EventRepo struct {
	db *sql.DB
}

// AppendLLMRequest stores a new LLM request event.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
		 (timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("append llm event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns the most recent events first.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	q := `SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
	      FROM llm_events ORDER BY id DESC`
	args := []any{}
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetLLMEvent returns a single event by id, or nil if not found.
func (r *EventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		 FROM llm_events WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get llm event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanLLMEvent(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LLMUsageByPurpose aggregates token usage and latency per purpose label.
func (r *EventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens), CAST(AVG(latency_ms) AS INTEGER)
		 FROM llm_events GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var stats []LLMUsageStat
	for rows.Next() {
		var s LLMUsageStat
		if err := rows.Scan(&s.Purpose, &s.Calls, &s.InputTokens, &s.OutputTokens, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func scanLLMEvent(rows *sql.Rows) (LLMEvent, error) {
	var e LLMEvent
	var ts string
	var success int
	err := rows.Scan(&e.ID, &ts, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs,
		&success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		return LLMEvent{}, fmt.Errorf("scan llm event: %w", err)
	}
	e.Success = success != 0
	e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
