package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "attestiz.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"a.db", "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"a.db?mode=ro", "a.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		if got := withPragmas(tt.dsn); got != tt.want {
			t.Errorf("withPragmas(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"answer_events", "session_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func answer(session string, user int64, qid string, correct bool, at time.Time) AnswerEventData {
	return AnswerEventData{
		Timestamp:     at,
		SessionID:     session,
		UserID:        user,
		FullName:      "Ivan Petrov",
		Position:      "Backend",
		QuestionID:    qid,
		QuestionType:  "single",
		Block:         1,
		Topic:         "Test A1: Basics",
		Prompt:        "[Code A1] Pick one",
		Meta:          map[string]string{"source": "common"},
		CorrectAnswer: json.RawMessage(`{"choice_ids":["c1"]}`),
		UserAnswer:    json.RawMessage(`{"choice_ids":["c2"]}`),
		Correct:       correct,
	}
}

func TestAppendAndQueryAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, qid := range []string{"b1-00000001", "b1-00000002", "b1-00000003"} {
		if err := repo.AppendAnswerEvent(ctx, answer("s1", 7, qid, i%2 == 0, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %s: %v", qid, err)
		}
	}
	if err := repo.AppendAnswerEvent(ctx, answer("s2", 8, "b1-00000009", true, base.Add(time.Hour))); err != nil {
		t.Fatalf("append s2: %v", err)
	}

	all, err := repo.QueryAnswerEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Errorf("sequence not increasing at %d: %d <= %d", i, all[i].Sequence, all[i-1].Sequence)
		}
	}

	first := all[0]
	if first.QuestionID != "b1-00000001" || !first.Correct {
		t.Errorf("first = %s correct=%v, want b1-00000001 correct=true", first.QuestionID, first.Correct)
	}
	if first.Meta["source"] != "common" {
		t.Errorf("meta source = %q, want common", first.Meta["source"])
	}
	if string(first.UserAnswer) != `{"choice_ids":["c2"]}` {
		t.Errorf("user answer = %s", first.UserAnswer)
	}
	if !first.Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, base)
	}

	bySession, err := repo.QueryAnswerEvents(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("query by session: %v", err)
	}
	if len(bySession) != 3 {
		t.Errorf("len(bySession) = %d, want 3", len(bySession))
	}

	byUser, err := repo.QueryAnswerEvents(ctx, QueryOpts{UserID: 8})
	if err != nil {
		t.Fatalf("query by user: %v", err)
	}
	if len(byUser) != 1 || byUser[0].SessionID != "s2" {
		t.Errorf("byUser = %+v, want one event of s2", byUser)
	}

	after, err := repo.QueryAnswerEvents(ctx, QueryOpts{After: all[1].Sequence, Limit: 1})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Sequence != all[2].Sequence {
		t.Errorf("after = %+v, want sequence %d", after, all[2].Sequence)
	}
}

func TestSessionEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.AppendSessionEvent(ctx, SessionEventData{
		Timestamp: now, SessionID: "s1", UserID: 7, Role: "backend", Action: SessionStarted, Total: 40,
	}); err != nil {
		t.Fatalf("append started: %v", err)
	}
	if err := repo.AppendAnswerEvent(ctx, answer("s1", 7, "b1-0000000a", true, now)); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{
		Timestamp: now, SessionID: "s1", UserID: 7, Role: "backend", Action: SessionCompleted,
		Answered: 1, Correct: 1, Total: 40,
	}); err != nil {
		t.Fatalf("append completed: %v", err)
	}

	events, err := repo.QuerySessionEvents(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("query session events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Action != SessionStarted || events[1].Action != SessionCompleted {
		t.Errorf("actions = %s, %s", events[0].Action, events[1].Action)
	}
	if events[0].Sequence != 1 || events[1].Sequence != 3 {
		t.Errorf("sequences = %d, %d, want 1, 3", events[0].Sequence, events[1].Sequence)
	}
	if events[1].Correct != 1 || events[1].Total != 40 {
		t.Errorf("completed totals = %d/%d, want 1/40", events[1].Correct, events[1].Total)
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_ = repo.AppendAnswerEvent(ctx, answer("s1", 7, "q1", true, base))
	_ = repo.AppendAnswerEvent(ctx, answer("s1", 7, "q2", false, base.Add(time.Minute)))
	_ = repo.AppendAnswerEvent(ctx, answer("s2", 8, "q1", true, base.Add(time.Hour)))

	sums, err := repo.SessionSummaries(ctx, 0)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("len(sums) = %d, want 2", len(sums))
	}
	if sums[0].SessionID != "s2" {
		t.Errorf("most recent session = %s, want s2", sums[0].SessionID)
	}
	s1 := sums[1]
	if s1.Answered != 2 || s1.Correct != 1 {
		t.Errorf("s1 = %d answered %d correct, want 2/1", s1.Answered, s1.Correct)
	}
	if !s1.FirstAt.Equal(base) || !s1.LastAt.Equal(base.Add(time.Minute)) {
		t.Errorf("s1 span = %v..%v", s1.FirstAt, s1.LastAt)
	}

	limited, err := repo.SessionSummaries(ctx, 1)
	if err != nil {
		t.Fatalf("limited summaries: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}
}
