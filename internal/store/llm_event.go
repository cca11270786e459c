package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the llm_request_events table and
// the global sequence counter.
type eventRepo struct {
	drv dialect.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := builder().Insert(llmRequestsTable).
		Columns("sequence", "timestamp", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) CountLLMRequests(ctx context.Context) (int, error) {
	q := builder().Select(entsql.Count("*")).From(entsql.Table(llmRequestsTable))

	var n int
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count LLM request events: %w", err)
	}
	return n, nil
}

func (r *eventRepo) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	q := builder().Select("sequence", "provider", "model", "purpose",
		"input_tokens", "output_tokens", "latency_ms", "success", "error_message", "timestamp").
		From(entsql.Table(llmRequestsTable)).
		OrderBy(entsql.Desc("sequence")).
		Limit(limit)

	var events []LLMRequestEvent
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		var e LLMRequestEvent
		if err := rows.Scan(&e.Sequence, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.CreatedAt); err != nil {
			return err
		}
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	q := builder().Select(
		"purpose",
		entsql.Count("*"),
		"SUM(CASE WHEN success THEN 0 ELSE 1 END)",
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		"CAST(AVG(latency_ms) AS INTEGER)",
	).
		From(entsql.Table(llmRequestsTable)).
		GroupBy("purpose").
		OrderBy("purpose")

	var usage []LLMUsage
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		var u LLMUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.Failures,
			&u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return err
		}
		usage = append(usage, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	return usage, nil
}
