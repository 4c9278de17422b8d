// Package questiongen turns question blueprints into randomized question
// instances and assembles the two blocks of an assessment.
package questiongen

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/quiz"
)

// Block numbers.
const (
	BlockOne = 1
	BlockTwo = 2
)

// Materializer produces randomized questions from blueprints. A single
// Materializer may be shared by every session; access to the random source
// is serialized.
type Materializer struct {
	mu   sync.Mutex
	rng  *rand.Rand
	bank *bank.Bank
}

// New creates a Materializer drawing randomness from rng. Passing a seeded
// source makes question order, option order and ids reproducible.
func New(rng *rand.Rand, b *bank.Bank) *Materializer {
	return &Materializer{rng: rng, bank: b}
}

// Materialize builds one question for the given block from bp.
func (m *Materializer) Materialize(bp quiz.Blueprint, block int) quiz.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materialize(bp, block)
}

func (m *Materializer) materialize(bp quiz.Blueprint, block int) quiz.Question {
	q := quiz.Question{
		ID:          m.questionID(fmt.Sprintf("b%d", block)),
		Block:       block,
		Topic:       bp.Topic,
		Prompt:      bp.Prompt,
		Explanation: bp.Explanation,
		Meta:        copyMeta(bp.Meta),
	}
	if bp.IsMatching() {
		m.fillMatching(&q, bp.Pairs)
		return q
	}

	options := make([]quiz.Option, len(bp.Options))
	copy(options, bp.Options)
	m.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	q.Choices = make([]quiz.Choice, len(options))
	correct := 0
	for i, o := range options {
		q.Choices[i] = quiz.Choice{
			ID:        fmt.Sprintf("c%d", i+1),
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		}
		if o.IsCorrect {
			correct++
		}
	}
	q.Type = quiz.TypeSingle
	if correct >= 2 {
		q.Type = quiz.TypeMulti
	}
	return q
}

// fillMatching keeps left items in authored order with ids 1..n and shuffles
// the right column before assigning ids A, B, ...
func (m *Materializer) fillMatching(q *quiz.Question, pairs []quiz.Pair) {
	q.Type = quiz.TypeMatching
	q.MatchingLeft = make([]quiz.MatchingItem, len(pairs))
	order := m.rng.Perm(len(pairs))
	q.MatchingRight = make([]quiz.MatchingItem, len(pairs))
	rightID := make([]string, len(pairs))
	for pos, idx := range order {
		id := rightLabel(pos)
		q.MatchingRight[pos] = quiz.MatchingItem{ID: id, Label: pairs[idx].Right}
		rightID[idx] = id
	}

	q.CorrectMapping = make(map[string]string, len(pairs))
	for i, p := range pairs {
		id := fmt.Sprint(i + 1)
		q.MatchingLeft[i] = quiz.MatchingItem{ID: id, Label: p.Left}
		q.CorrectMapping[id] = rightID[i]
	}
}

// rightLabel returns A..Z, then AA, AB, ...
func rightLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return rightLabel(i/26-1) + string(rune('A'+i%26))
}

// questionID returns prefix plus an 8-hex-character suffix drawn from the
// random source.
func (m *Materializer) questionID(prefix string) string {
	u, err := uuid.NewRandomFromReader(m.rng)
	if err != nil {
		u = uuid.New()
	}
	return prefix + "-" + hex.EncodeToString(u[:4])
}

// BuildBlocks samples min(count, pool size) blueprints without replacement
// from the common pool and from the pool of roleSlug, and materializes them.
// An empty pool yields an empty block; callers treat an empty second block
// as a configuration error.
func (m *Materializer) BuildBlocks(roleSlug string, countOne, countTwo int) (blockOne, blockTwo []quiz.Question, err error) {
	role, err := m.bank.Role(roleSlug)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	blockOne = m.sample(m.bank.Common(), countOne, BlockOne)
	blockTwo = m.sample(role.Questions, countTwo, BlockTwo)
	return blockOne, blockTwo, nil
}

func (m *Materializer) sample(pool []quiz.Blueprint, count, block int) []quiz.Question {
	n := min(max(count, 0), len(pool))
	picked := m.rng.Perm(len(pool))[:n]
	out := make([]quiz.Question, 0, n)
	for _, idx := range picked {
		out = append(out, m.materialize(pool[idx], block))
	}
	return out
}

func copyMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
