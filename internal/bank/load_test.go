package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/attestiz/internal/quiz"
)

const commonJSON = `{
  "tests": [
    {
      "test_code": 101,
      "test_name": "Blood count",
      "questions": [
        {"type": "multiple_choice", "question": "Which tube?", "options": [
          {"text": "Purple", "correct": true},
          {"text": " ", "correct": false},
          {"text": "Red"}
        ]},
        {"type": "true_false", "question": "Fasting required?", "correct": false},
        {"type": "identification", "question": "Name the sample"},
        {"type": "multiple_choice", "question": "No correct option", "options": [{"text": "a"}]},
        {"type": "multiple_choice", "question": "  ", "options": [{"text": "a", "correct": true}]}
      ]
    },
    {
      "test_code": "A7",
      "questions": [
        {"type": "multiple_choice", "question": "[Code A7] Already prefixed", "explanation": "Because.", "options": [
          {"text": "x", "correct": true}, {"text": "y", "correct": true}
        ]}
      ]
    }
  ]
}`

const roleJSON = `{
  "questions": [
    {"id": 3, "question": "Pick one", "topic": "Triage", "options": [
      {"text": "Yes", "correct": true}, {"text": "No"}
    ]},
    {"question": "Match organs", "pairs": [
      {"left": "Heart", "right": "Pump"}, {"left": "Lung", "right": "Breath"}
    ]},
    {"id": "x", "question": "Empty", "options": []}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadFixture(t *testing.T) *Bank {
	t.Helper()
	dir := t.TempDir()
	b, err := Load(Source{
		CommonPath: writeFile(t, dir, "common.json", commonJSON),
		Roles: []RoleSource{
			{Slug: "nurse", Title: "Nurse", Path: writeFile(t, dir, "nurse.json", roleJSON), BlockTwoCount: 15},
		},
	})
	require.NoError(t, err)
	return b
}

func TestLoadCommon(t *testing.T) {
	b := loadFixture(t)
	common := b.Common()
	require.Len(t, common, 3)

	first := common[0]
	assert.Equal(t, "[Code 101] Which tube?", first.Prompt)
	assert.Equal(t, "Test 101: Blood count", first.Topic)
	assert.Equal(t, []quiz.Option{{Text: "Purple", IsCorrect: true}, {Text: "Red"}}, first.Options)
	assert.Equal(t, "Correct answer: Purple", first.Explanation)
	assert.Equal(t, map[string]string{"source": "common", "test_code": "101", "test_name": "Blood count"}, first.Meta)

	tf := common[1]
	assert.Equal(t, []quiz.Option{{Text: "Yes"}, {Text: "No", IsCorrect: true}}, tf.Options)

	prefixed := common[2]
	assert.Equal(t, "[Code A7] Already prefixed", prefixed.Prompt)
	assert.Equal(t, "Test A7", prefixed.Topic)
	assert.Equal(t, "Because.", prefixed.Explanation)
	assert.Equal(t, 2, prefixed.CorrectCount())
}

func TestLoadRole(t *testing.T) {
	b := loadFixture(t)
	role, err := b.Role("nurse")
	require.NoError(t, err)
	assert.Equal(t, 15, role.BlockTwoCount)
	require.Len(t, role.Questions, 2)

	q := role.Questions[0]
	assert.Equal(t, "[Nurse] Q3. Pick one", q.Prompt)
	assert.Equal(t, "Triage", q.Topic)
	assert.Equal(t, "nurse", q.Meta["source"])

	m := role.Questions[1]
	assert.True(t, m.IsMatching())
	assert.Equal(t, "[Nurse] Q2. Match organs", m.Prompt)
	assert.Equal(t, "Nurse", m.Topic)
	assert.Equal(t, "Correct answer: Heart → Pump; Lung → Breath", m.Explanation)
}

func TestUnknownRole(t *testing.T) {
	b := loadFixture(t)
	_, err := b.Role("surgeon")
	assert.True(t, errors.Is(err, quiz.ErrUnknownRole))
}

func TestLoadSchemaError(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(Source{CommonPath: writeFile(t, dir, "common.json", `{"tests": [{"questions": "nope"}]}`)})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Path, "common.json")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{CommonPath: filepath.Join(t.TempDir(), "missing.json")})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEmptyRolePool(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(Source{
		CommonPath: writeFile(t, dir, "common.json", commonJSON),
		Roles: []RoleSource{
			{Slug: "empty", Title: "Empty", Path: writeFile(t, dir, "empty.json", `{"questions": []}`)},
		},
	})
	var le *LoadError
	require.ErrorAs(t, err, &le)
}

func TestRolesKeepOrder(t *testing.T) {
	b := New(nil,
		RoleSet{Slug: "b", Title: "B"},
		RoleSet{Slug: "a", Title: "A"},
	)
	roles := b.Roles()
	require.Len(t, roles, 2)
	if roles[0].Slug != "b" || roles[1].Slug != "a" {
		t.Errorf("Roles() order = [%s %s], want [b a]", roles[0].Slug, roles[1].Slug)
	}
	if got := b.Stats().Roles["a"]; got != 0 {
		t.Errorf("Stats().Roles[a] = %d, want 0", got)
	}
}
