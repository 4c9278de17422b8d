package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	meta, err := json.Marshal(data.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	query, args := builder().Insert(AnswerEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "user_id", "full_name", "position",
			"question_id", "question_type", "block", "topic", "prompt", "meta",
			"correct_answer", "user_answer", "correct").
		Values(seqNum, data.Timestamp, data.SessionID, data.UserID, data.FullName, data.Position,
			data.QuestionID, data.QuestionType, data.Block, data.Topic, data.Prompt, string(meta),
			rawOrNull(data.CorrectAnswer), rawOrNull(data.UserAnswer), data.Correct).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(SessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "user_id", "role", "action",
			"answered", "correct", "total").
		Values(seqNum, data.Timestamp, data.SessionID, data.UserID, data.Role, data.Action,
			data.Answered, data.Correct, data.Total).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// filter applies QueryOpts to a selector over an event table.
func filter(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.UserID != 0 {
		sel.Where(entsql.EQ("user_id", opts.UserID))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	sel := builder().Select("id", "sequence", "timestamp", "session_id", "user_id", "full_name",
		"position", "question_id", "question_type", "block", "topic", "prompt", "meta",
		"correct_answer", "user_answer", "correct").
		From(entsql.Table(AnswerEventsTable.Name))
	query, args := filter(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			ev              AnswerEvent
			meta            string
			correct, answer []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.UserID,
			&ev.FullName, &ev.Position, &ev.QuestionID, &ev.QuestionType, &ev.Block, &ev.Topic,
			&ev.Prompt, &meta, &correct, &answer, &ev.Correct); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &ev.Meta); err != nil {
				return nil, fmt.Errorf("decode meta: %w", err)
			}
		}
		ev.CorrectAnswer = json.RawMessage(correct)
		ev.UserAnswer = json.RawMessage(answer)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := builder().Select("id", "sequence", "timestamp", "session_id", "user_id", "role",
		"action", "answered", "correct", "total").
		From(entsql.Table(SessionEventsTable.Name))
	query, args := filter(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var ev SessionEvent
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.UserID,
			&ev.Role, &ev.Action, &ev.Answered, &ev.Correct, &ev.Total); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error) {
	sel := builder().Select(
		"session_id",
		entsql.As(entsql.Max("user_id"), "user_id"),
		entsql.As(entsql.Max("full_name"), "full_name"),
		entsql.As(entsql.Max("position"), "position"),
		entsql.As(entsql.Count("*"), "answered"),
		entsql.As(entsql.Sum("correct"), "correct_count"),
		entsql.As(entsql.Min("sequence"), "first_seq"),
		entsql.As(entsql.Max("sequence"), "last_seq"),
	).
		From(entsql.Table(AnswerEventsTable.Name)).
		GroupBy("session_id").
		OrderBy(entsql.Desc("last_seq"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	type agg struct {
		SessionSummary
		firstSeq, lastSeq int64
	}
	var aggs []agg
	for rows.Next() {
		var a agg
		if err := rows.Scan(&a.SessionID, &a.UserID, &a.FullName, &a.Position,
			&a.Answered, &a.Correct, &a.firstSeq, &a.lastSeq); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]SessionSummary, 0, len(aggs))
	for _, a := range aggs {
		first, err := r.timestampAt(ctx, a.firstSeq)
		if err != nil {
			return nil, err
		}
		last, err := r.timestampAt(ctx, a.lastSeq)
		if err != nil {
			return nil, err
		}
		a.FirstAt, a.LastAt = first, last
		out = append(out, a.SessionSummary)
	}
	return out, nil
}

// timestampAt returns the timestamp of the answer event with the given sequence.
func (r *eventRepo) timestampAt(ctx context.Context, seq int64) (time.Time, error) {
	events, err := r.QueryAnswerEvents(ctx, QueryOpts{After: seq - 1, Limit: 1})
	if err != nil {
		return time.Time{}, err
	}
	if len(events) == 0 {
		return time.Time{}, nil
	}
	return events[0].Timestamp, nil
}

func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
