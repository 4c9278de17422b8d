package results

import (
	"context"
	"fmt"

	"github.com/abhisek/attestiz/internal/store"
)

// StoreSink writes records and lifecycle events to the local SQLite store.
type StoreSink struct {
	repo   store.EventRepo
	closer func() error
}

// NewStoreSink writes through repo. closer, if non-nil, runs on Close.
func NewStoreSink(repo store.EventRepo, closer func() error) *StoreSink {
	return &StoreSink{repo: repo, closer: closer}
}

func (s *StoreSink) Write(ctx context.Context, rec Record) error {
	err := s.repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		Timestamp:     rec.Timestamp,
		SessionID:     rec.SessionID,
		UserID:        rec.UserID,
		FullName:      rec.Profile.FullName,
		Position:      rec.Profile.Position,
		QuestionID:    rec.Question.ID,
		QuestionType:  string(rec.Question.Type),
		Block:         rec.Question.Block,
		Topic:         rec.Question.Topic,
		Prompt:        rec.Question.Prompt,
		Meta:          rec.Question.Meta,
		CorrectAnswer: rec.CorrectAnswer.JSON(),
		UserAnswer:    rec.UserAnswer.JSON(),
		Correct:       rec.IsCorrect,
	})
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

func (s *StoreSink) WriteSessionEvent(ctx context.Context, ev SessionEvent) error {
	err := s.repo.AppendSessionEvent(ctx, store.SessionEventData{
		Timestamp: ev.Timestamp,
		SessionID: ev.SessionID,
		UserID:    ev.UserID,
		Role:      ev.Role,
		Action:    ev.Action,
		Answered:  ev.Answered,
		Correct:   ev.Correct,
		Total:     ev.Total,
	})
	if err != nil {
		return fmt.Errorf("store session event: %w", err)
	}
	return nil
}

func (s *StoreSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
