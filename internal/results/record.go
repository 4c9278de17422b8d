// Package results turns finalized answers into structured records and
// delivers them to one or more storage backends.
package results

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/session"
)

// QuestionSummary is the part of a question carried in a record.
type QuestionSummary struct {
	ID     string            `json:"id" bson:"id"`
	Type   quiz.QuestionType `json:"type" bson:"type"`
	Prompt string            `json:"prompt" bson:"prompt"`
	Block  int               `json:"block" bson:"block"`
	Topic  string            `json:"topic" bson:"topic"`
	Meta   map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
}

// AnswerPayload is the serializable form of a quiz.Answer. Texts carries the
// human-readable choice texts so records stay readable without the bank.
type AnswerPayload struct {
	ChoiceIDs []string          `json:"choice_ids,omitempty" bson:"choice_ids,omitempty"`
	Texts     []string          `json:"texts,omitempty" bson:"texts,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty" bson:"mapping,omitempty"`
}

// Record is one finalized answer.
type Record struct {
	Timestamp     time.Time       `json:"timestamp" bson:"timestamp"`
	SessionID     string          `json:"session_id" bson:"session_id"`
	UserID        int64           `json:"user_id" bson:"user_id"`
	Profile       session.Profile `json:"profile" bson:"profile"`
	Question      QuestionSummary `json:"question" bson:"question"`
	CorrectAnswer AnswerPayload   `json:"correct_answer" bson:"correct_answer"`
	UserAnswer    AnswerPayload   `json:"user_answer" bson:"user_answer"`
	IsCorrect     bool            `json:"is_correct" bson:"is_correct"`
}

// NewRecord builds the record for result r produced in session s.
func NewRecord(at time.Time, s *session.Session, r quiz.Result) Record {
	q := r.Question
	return Record{
		Timestamp: at.UTC(),
		SessionID: s.ID,
		UserID:    s.UserID,
		Profile:   s.Profile,
		Question: QuestionSummary{
			ID:     q.ID,
			Type:   q.Type,
			Prompt: q.Prompt,
			Block:  q.Block,
			Topic:  q.Topic,
			Meta:   q.Meta,
		},
		CorrectAnswer: payload(q, quiz.CorrectAnswer(q)),
		UserAnswer:    payload(q, r.Answer),
		IsCorrect:     r.IsCorrect,
	}
}

func payload(q quiz.Question, a quiz.Answer) AnswerPayload {
	switch v := a.(type) {
	case quiz.SingleAnswer:
		if v.ChoiceID == "" {
			return AnswerPayload{}
		}
		return AnswerPayload{ChoiceIDs: []string{v.ChoiceID}, Texts: quiz.ChoiceTexts(q, a)}
	case quiz.MultiAnswer:
		ids := append([]string(nil), v.ChoiceIDs...)
		sort.Strings(ids)
		return AnswerPayload{ChoiceIDs: ids, Texts: quiz.ChoiceTexts(q, a)}
	case quiz.MatchingAnswer:
		m := make(map[string]string, len(v.Mapping))
		for k, val := range v.Mapping {
			m[k] = val
		}
		return AnswerPayload{Mapping: m}
	}
	return AnswerPayload{}
}

// JSON encodes p, returning nil for an empty payload.
func (p AnswerPayload) JSON() json.RawMessage {
	if len(p.ChoiceIDs) == 0 && len(p.Mapping) == 0 {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return b
}

// SessionEvent is a session lifecycle transition.
type SessionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
}
