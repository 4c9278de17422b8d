package session

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/attestiz/internal/quiz"
)

type engineWorld struct {
	engine  *Engine
	session *Session
	status  Status
	lastErr error
}

func (w *engineWorld) sessionWithBlocks(one, two int) error {
	w.engine = newTestEngine()
	w.session = newTestSession(singles("b1", one, 1), singles("b2", two, 2))
	return nil
}

func (w *engineWorld) sessionWithMatching() error {
	w.engine = newTestEngine()
	w.session = newTestSession([]quiz.Question{matchingQ("mt", 1)}, nil)
	return nil
}

func (w *engineWorld) answerLiveCorrectly() error {
	out, err := answerLive(w.engine, w.session)
	if err != nil {
		return err
	}
	w.status = out.Status
	return nil
}

func (w *engineWorld) answered(n int) error {
	for range n {
		if err := w.answerLiveCorrectly(); err != nil {
			return err
		}
	}
	return nil
}

func (w *engineWorld) statusIs(want string) error {
	if string(w.status) != want {
		return fmt.Errorf("status = %q, want %q", w.status, want)
	}
	return nil
}

func (w *engineWorld) livePosition(block, index int) error {
	if w.session.CurrentBlock() != block || w.session.CurrentIndex() != index {
		return fmt.Errorf("position = block %d index %d, want block %d index %d",
			w.session.CurrentBlock(), w.session.CurrentIndex(), block, index)
	}
	return nil
}

func (w *engineWorld) assign(left, right string) error {
	return w.engine.Assign(w.session, "mt", left, right)
}

func (w *engineWorld) mappingIs(want string) error {
	mapping, _ := w.session.Mapping("mt")
	var pairs []string
	for _, k := range slices.Sorted(maps.Keys(mapping)) {
		pairs = append(pairs, k+":"+mapping[k])
	}
	if got := strings.Join(pairs, ","); got != want {
		return fmt.Errorf("mapping = %q, want %q", got, want)
	}
	return nil
}

func (w *engineWorld) submitIncomplete() error {
	_, err := w.engine.SubmitMatching(w.session, "mt")
	if !errors.Is(err, quiz.ErrIncompleteMapping) {
		return fmt.Errorf("SubmitMatching() error = %v, want incomplete mapping", err)
	}
	return nil
}

func (w *engineWorld) answersRecorded(n int) error {
	if got := w.session.AnswerCount(); got != n {
		return fmt.Errorf("answers = %d, want %d", got, n)
	}
	return nil
}

func (w *engineWorld) review(dir string, times int) error {
	d := Previous
	if dir == "next" {
		d = Next
	}
	for range times {
		w.engine.Review(w.session, d)
	}
	return nil
}

func (w *engineWorld) liveShown() error {
	if idx, ok := w.session.Reviewing(); ok {
		return fmt.Errorf("still reviewing answer %d", idx)
	}
	return nil
}

func (w *engineWorld) submitFor(questionID string) error {
	_, w.lastErr = w.engine.Submit(w.session, questionID, quiz.SingleAnswer{ChoiceID: "c1"})
	return nil
}

func (w *engineWorld) rejectedStale() error {
	if !errors.Is(w.lastErr, quiz.ErrStaleQuestion) {
		return fmt.Errorf("error = %v, want stale question", w.lastErr)
	}
	return nil
}

func initializeEngineScenario(sc *godog.ScenarioContext) {
	w := &engineWorld{}
	sc.Step(`^a session with (\d+) questions in block one and (\d+) in block two$`, w.sessionWithBlocks)
	sc.Step(`^a session with a matching question$`, w.sessionWithMatching)
	sc.Step(`^I answer the live question correctly$`, w.answerLiveCorrectly)
	sc.Step(`^I have answered (\d+) questions$`, w.answered)
	sc.Step(`^the status is "([^"]*)"$`, w.statusIs)
	sc.Step(`^the live position is block (\d+) index (\d+)$`, w.livePosition)
	sc.Step(`^I assign (\w+) to (\w+)$`, w.assign)
	sc.Step(`^the mapping is "([^"]*)"$`, w.mappingIs)
	sc.Step(`^submitting the mapping fails as incomplete$`, w.submitIncomplete)
	sc.Step(`^(\d+) answers are recorded$`, w.answersRecorded)
	sc.Step(`^I review (previous|next) (\d+) times$`, w.review)
	sc.Step(`^the live question is shown$`, w.liveShown)
	sc.Step(`^I submit an answer for question "([^"]*)"$`, w.submitFor)
	sc.Step(`^the submission is rejected as stale$`, w.rejectedStale)
}

func TestEngineFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "engine",
		ScenarioInitializer: initializeEngineScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("engine feature scenarios failed")
	}
}
