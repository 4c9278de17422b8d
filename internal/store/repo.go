package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	SessionID string    // exact session match
	UserID    int64     // exact user match (0 = any)
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
}

// AnswerEventData captures one finalized answer.
type AnswerEventData struct {
	Timestamp     time.Time         `json:"timestamp"`
	SessionID     string            `json:"session_id"`
	UserID        int64             `json:"user_id"`
	FullName      string            `json:"full_name"`
	Position      string            `json:"position"`
	QuestionID    string            `json:"question_id"`
	QuestionType  string            `json:"question_type"`
	Block         int               `json:"block"`
	Topic         string            `json:"topic"`
	Prompt        string            `json:"prompt"`
	Meta          map[string]string `json:"meta,omitempty"`
	CorrectAnswer json.RawMessage   `json:"correct_answer"`
	UserAnswer    json.RawMessage   `json:"user_answer"`
	Correct       bool              `json:"correct"`
}

// AnswerEvent is a stored answer.
type AnswerEvent struct {
	ID       int   `json:"id"`
	Sequence int64 `json:"sequence"`
	AnswerEventData
}

// Session event actions.
const (
	SessionStarted   = "started"
	SessionSwitched  = "switched"
	SessionCompleted = "completed"
	SessionAbandoned = "abandoned"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID       int   `json:"id"`
	Sequence int64 `json:"sequence"`
	SessionEventData
}

// SessionSummary aggregates the stored answers of one session.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Position  string    `json:"position"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	FirstAt   time.Time `json:"first_at"`
	LastAt    time.Time `json:"last_at"`
}

// EventRepo provides append and query access to assessment events.
type EventRepo interface {
	// AppendAnswerEvent records a finalized answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryAnswerEvents returns answers in sequence order.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)

	// QuerySessionEvents returns session events in sequence order.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// SessionSummaries returns per-session answer totals, most recent first.
	SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error)
}
