// Package proctor runs assessment sessions on behalf of a transport. It
// builds question blocks, drives the session engine, emits result records
// as answers are finalized and produces the final report.
package proctor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/metrics"
	"github.com/abhisek/attestiz/internal/questiongen"
	"github.com/abhisek/attestiz/internal/report"
	"github.com/abhisek/attestiz/internal/results"
	"github.com/abhisek/attestiz/internal/session"
	"github.com/abhisek/attestiz/internal/store"
)

// ErrNoSession is returned when a user without a session sends an action.
var ErrNoSession = errors.New("no active session")

// BlockOneTitle is the title of the common block.
const BlockOneTitle = "Block 1 — Common"

// BlockTwoTitle returns the title of the role block.
func BlockTwoTitle(roleTitle string) string {
	return "Block 2 — " + roleTitle
}

// Deps are the collaborators of a Service. Bank, Materializer, Engine and
// Registry are required; the rest have working defaults.
type Deps struct {
	Bank          *bank.Bank
	Materializer  *questiongen.Materializer
	Engine        *session.Engine
	Registry      *session.Registry
	Sink          results.Sink
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Clock         func() time.Time
	NewID         func() string
	BlockOneCount int
}

// Service is safe for concurrent use by many users.
type Service struct {
	bank     *bank.Bank
	gen      *questiongen.Materializer
	engine   *session.Engine
	registry *session.Registry
	sink     results.Sink
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	countOne int
}

// New creates a Service from d.
func New(d Deps) *Service {
	s := &Service{
		bank:     d.Bank,
		gen:      d.Materializer,
		engine:   d.Engine,
		registry: d.Registry,
		sink:     d.Sink,
		metrics:  d.Metrics,
		logger:   d.Logger,
		now:      d.Clock,
		newID:    d.NewID,
		countOne: d.BlockOneCount,
	}
	if s.sink == nil {
		s.sink = results.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Reply describes the effect of a Start or Apply call.
type Reply struct {
	// Outcome is set when the call finalized an answer.
	Outcome *session.Outcome

	// Review is set for review navigation.
	Review session.ReviewStatus

	// View is the session state after the call.
	View session.View

	// Feedback is the verdict and explanation of a finalized answer.
	Feedback string

	// Summary is set when the session finished; the session is gone.
	Summary *report.Summary

	// Hint is a short notice for the user, e.g. for a no-op review step.
	Hint string
}

// Done reports whether the call finished the session.
func (r Reply) Done() bool { return r.Summary != nil }

// Roles lists the selectable roles in configuration order.
func (s *Service) Roles() []bank.RoleSet {
	return s.bank.Roles()
}

// Active returns the number of sessions in progress.
func (s *Service) Active() int {
	return s.registry.Active()
}

// Start creates a session for userID, replacing (and abandoning) any session
// the user already has.
func (s *Service) Start(ctx context.Context, userID int64, profile session.Profile, roleSlug string) (Reply, error) {
	name, err := NormalizeName(profile.FullName)
	if err != nil {
		return Reply{}, err
	}
	role, err := s.bank.Role(roleSlug)
	if err != nil {
		return Reply{}, err
	}
	blockOne, blockTwo, err := s.gen.BuildBlocks(role.Slug, s.countOne, role.BlockTwoCount)
	if err != nil {
		return Reply{}, err
	}

	if profile.Position == "" {
		profile.Position = role.Title
	}
	profile.FullName = name
	sess := session.New(session.Config{
		ID:            s.newID(),
		UserID:        userID,
		RoleSlug:      role.Slug,
		Profile:       profile,
		BlockOne:      blockOne,
		BlockTwo:      blockTwo,
		BlockOneTitle: BlockOneTitle,
		BlockTwoTitle: BlockTwoTitle(role.Title),
		StartedAt:     s.now(),
	})

	var reply Reply
	err = s.registry.Do(userID, func(prev *session.Session) (*session.Session, error) {
		if prev != nil {
			s.lifecycle(ctx, prev, store.SessionAbandoned)
		}
		s.lifecycle(ctx, sess, store.SessionStarted)
		s.logger.Info("session started",
			"user_id", userID, "session_id", sess.ID, "role", role.Slug,
			"block_one", len(blockOne), "block_two", len(blockTwo))

		if sess.Done() {
			reply = s.finish(ctx, sess)
			return nil, nil
		}
		reply.View = sess.View()
		return sess, nil
	})
	s.metrics.SetActive(s.registry.Active())
	return reply, err
}

// Apply performs action on the user's session.
func (s *Service) Apply(ctx context.Context, userID int64, action session.Action) (Reply, error) {
	var reply Reply
	err := s.registry.Do(userID, func(sess *session.Session) (*session.Session, error) {
		if sess == nil {
			return nil, ErrNoSession
		}
		step, err := s.engine.Apply(sess, action)
		if err != nil {
			s.metrics.Rejected(Reason(err))
			s.logger.Debug("action rejected",
				"user_id", userID, "session_id", sess.ID, "question_id", action.QuestionID,
				"action", string(action.Kind), "error", err)
			return sess, err
		}

		reply.Review = step.Review
		reply.Hint = reviewHint(step.Review)
		if step.Outcome != nil {
			reply.Outcome = step.Outcome
			s.record(ctx, sess, step.Outcome)
			reply.Feedback = report.Feedback(step.Outcome.Result)
			if step.Outcome.Status == session.StatusSwitch {
				s.lifecycle(ctx, sess, store.SessionSwitched)
			}
			if step.Outcome.Status == session.StatusDone {
				done := s.finish(ctx, sess)
				done.Outcome, done.Feedback = reply.Outcome, reply.Feedback
				reply = done
				return nil, nil
			}
		}
		reply.View = sess.View()
		return sess, nil
	})
	s.metrics.SetActive(s.registry.Active())
	return reply, err
}

// Current returns the view of the user's session, if any.
func (s *Service) Current(userID int64) (session.View, bool) {
	var (
		view session.View
		ok   bool
	)
	_ = s.registry.Do(userID, func(sess *session.Session) (*session.Session, error) {
		if sess != nil {
			view, ok = sess.View(), true
		}
		return sess, nil
	})
	return view, ok
}

// Abandon discards the user's session. It reports whether one existed.
func (s *Service) Abandon(ctx context.Context, userID int64) bool {
	var had bool
	_ = s.registry.Do(userID, func(sess *session.Session) (*session.Session, error) {
		if sess != nil {
			had = true
			s.lifecycle(ctx, sess, store.SessionAbandoned)
		}
		return nil, nil
	})
	s.metrics.SetActive(s.registry.Active())
	return had
}

// finish builds the summary of a finished session and records completion.
func (s *Service) finish(ctx context.Context, sess *session.Session) Reply {
	sum := report.Build(sess)
	s.lifecycle(ctx, sess, store.SessionCompleted)
	s.logger.Info("session completed",
		"user_id", sess.UserID, "session_id", sess.ID, "role", sess.RoleSlug,
		"correct", sum.Overall.Correct, "total", sum.Overall.Total)
	return Reply{View: sess.View(), Summary: &sum}
}

// record emits the result record of a finalized answer. Sink failures are
// logged and never reach the user.
func (s *Service) record(ctx context.Context, sess *session.Session, out *session.Outcome) {
	r := out.Result
	s.metrics.Answer(r.Question.Block, r.IsCorrect)
	if err := s.sink.Write(ctx, results.NewRecord(s.now(), sess, r)); err != nil {
		s.logger.Warn("write result failed",
			"user_id", sess.UserID, "session_id", sess.ID, "question_id", r.Question.ID, "error", err)
	}
}

func (s *Service) lifecycle(ctx context.Context, sess *session.Session, action string) {
	switch action {
	case store.SessionStarted:
		s.metrics.SessionStarted(sess.RoleSlug)
	case store.SessionCompleted:
		s.metrics.SessionCompleted(sess.RoleSlug)
	case store.SessionAbandoned:
		s.metrics.SessionAbandoned(sess.RoleSlug)
		s.logger.Info("session abandoned",
			"user_id", sess.UserID, "session_id", sess.ID, "answered", sess.AnswerCount())
	}

	ls, ok := s.sink.(results.LifecycleSink)
	if !ok {
		return
	}
	correct := 0
	for _, r := range sess.Answers() {
		if r.IsCorrect {
			correct++
		}
	}
	err := ls.WriteSessionEvent(ctx, results.SessionEvent{
		Timestamp: s.now().UTC(),
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Role:      sess.RoleSlug,
		Action:    action,
		Answered:  sess.AnswerCount(),
		Correct:   correct,
		Total:     sess.TotalQuestions(),
	})
	if err != nil {
		s.logger.Warn("write session event failed",
			"user_id", sess.UserID, "session_id", sess.ID, "action", action, "error", err)
	}
}
