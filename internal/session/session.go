// Package session implements the assessment session: the per-user state of
// one attempt and the engine that drives it through two question blocks.
package session

import (
	"time"

	"github.com/abhisek/attestiz/internal/quiz"
)

// Phase is the lifecycle phase of a session. Role selection happens before a
// Session exists and is tracked by the transport.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseDone      Phase = "done"
)

// Profile identifies the person taking the assessment.
type Profile struct {
	FullName string `json:"full_name" bson:"full_name"`
	Position string `json:"position" bson:"position"`
}

// Config holds everything needed to create a Session.
type Config struct {
	ID            string
	UserID        int64
	RoleSlug      string
	Profile       Profile
	BlockOne      []quiz.Question
	BlockTwo      []quiz.Question
	BlockOneTitle string
	BlockTwoTitle string
	StartedAt     time.Time
}

// Session is the mutable state of one assessment attempt. It is mutated only
// by Engine and must not be used from more than one goroutine at a time.
type Session struct {
	// ID uniquely identifies this attempt in result records.
	ID string

	// UserID is the transport-level identity of the participant.
	UserID int64

	// RoleSlug is the role whose pool fed block two.
	RoleSlug string

	// Profile is the participant's name and chosen position.
	Profile Profile

	// StartedAt is when the session was created.
	StartedAt time.Time

	blocks [2][]quiz.Question
	titles [2]string

	currentBlock int
	currentIndex int
	answers      []quiz.Result
	drafts       drafts

	// review is the index into answers being reviewed, or -1 for the live question.
	review int
	phase  Phase
}

// New creates a session positioned at the first question. An empty first
// block starts the session in block two; two empty blocks yield a session
// that is already done.
func New(cfg Config) *Session {
	s := &Session{
		ID:           cfg.ID,
		UserID:       cfg.UserID,
		RoleSlug:     cfg.RoleSlug,
		Profile:      cfg.Profile,
		StartedAt:    cfg.StartedAt,
		blocks:       [2][]quiz.Question{cfg.BlockOne, cfg.BlockTwo},
		titles:       [2]string{cfg.BlockOneTitle, cfg.BlockTwoTitle},
		currentBlock: 1,
		drafts:       make(drafts),
		review:       -1,
		phase:        PhaseAnswering,
	}
	if len(cfg.BlockOne) == 0 {
		s.currentBlock = 2
		if len(cfg.BlockTwo) == 0 {
			s.phase = PhaseDone
		}
	}
	return s
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Done reports whether the session reached its terminal phase.
func (s *Session) Done() bool { return s.phase == PhaseDone }

// CurrentBlock returns the block number (1 or 2) of the live question.
func (s *Session) CurrentBlock() int { return s.currentBlock }

// CurrentIndex returns the 0-based position of the live question in its block.
func (s *Session) CurrentIndex() int { return s.currentIndex }

// Block returns the questions of block n (1 or 2).
func (s *Session) Block(n int) []quiz.Question {
	if n < 1 || n > 2 {
		return nil
	}
	return s.blocks[n-1]
}

// BlockTitle returns the display title of block n.
func (s *Session) BlockTitle(n int) string {
	if n < 1 || n > 2 {
		return ""
	}
	return s.titles[n-1]
}

// TotalQuestions returns the number of questions across both blocks.
func (s *Session) TotalQuestions() int {
	return len(s.blocks[0]) + len(s.blocks[1])
}

// Current returns the live question. It reports false once the session is done.
func (s *Session) Current() (quiz.Question, bool) {
	if s.phase == PhaseDone {
		return quiz.Question{}, false
	}
	block := s.Block(s.currentBlock)
	if s.currentIndex >= len(block) {
		return quiz.Question{}, false
	}
	return block[s.currentIndex], true
}

// Answers returns a copy of the answer log in submission order.
func (s *Session) Answers() []quiz.Result {
	out := make([]quiz.Result, len(s.answers))
	copy(out, s.answers)
	return out
}

// AnswerCount returns the number of answered questions.
func (s *Session) AnswerCount() int { return len(s.answers) }

// Reviewing returns the answer index under review, if any.
func (s *Session) Reviewing() (int, bool) {
	if s.review < 0 {
		return 0, false
	}
	return s.review, true
}
