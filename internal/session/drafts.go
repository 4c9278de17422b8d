package session

import "github.com/abhisek/attestiz/internal/quiz"

// Draft is the in-progress input for one question: *MultiDraft or
// *MatchingDraft. Questions without a draft entry have no partial input.
type Draft interface {
	draft()
}

// MultiDraft is the set of toggled choices of a multi-choice question.
type MultiDraft struct {
	Selected map[string]bool
}

func (*MultiDraft) draft() {}

// MatchingDraft is the partial mapping of a matching question and the left
// item awaiting a right-item pick.
type MatchingDraft struct {
	Mapping map[string]string
	Focus   string
}

func (*MatchingDraft) draft() {}

// drafts maps question id to its draft.
type drafts map[string]Draft

func (d drafts) multi(questionID string) *MultiDraft {
	if md, ok := d[questionID].(*MultiDraft); ok {
		return md
	}
	md := &MultiDraft{Selected: make(map[string]bool)}
	d[questionID] = md
	return md
}

func (d drafts) matching(questionID string) *MatchingDraft {
	if md, ok := d[questionID].(*MatchingDraft); ok {
		return md
	}
	md := &MatchingDraft{Mapping: make(map[string]string)}
	d[questionID] = md
	return md
}

func (d drafts) clear(questionID string) {
	delete(d, questionID)
}

// Selection returns the toggled choice ids of a multi-choice question in
// display order.
func (s *Session) Selection(q quiz.Question) []string {
	md, ok := s.drafts[q.ID].(*MultiDraft)
	if !ok {
		return nil
	}
	var ids []string
	for _, c := range q.Choices {
		if md.Selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Mapping returns a copy of the partial mapping and the focused left item of
// a matching question.
func (s *Session) Mapping(questionID string) (map[string]string, string) {
	md, ok := s.drafts[questionID].(*MatchingDraft)
	if !ok {
		return map[string]string{}, ""
	}
	out := make(map[string]string, len(md.Mapping))
	for k, v := range md.Mapping {
		out[k] = v
	}
	return out, md.Focus
}

// HasDraft reports whether any partial input is held for questionID.
func (s *Session) HasDraft(questionID string) bool {
	_, ok := s.drafts[questionID]
	return ok
}
