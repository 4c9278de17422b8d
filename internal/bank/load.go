package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/attestiz/internal/quiz"
)

// Source names the files a Bank is loaded from.
type Source struct {
	CommonPath string
	Roles      []RoleSource
}

// RoleSource names one role's questions file and settings.
type RoleSource struct {
	Slug          string
	Title         string
	Path          string
	BlockTwoCount int
}

// Load reads, validates and parses every bank file in src. A file that
// yields no usable question is a load error.
func Load(src Source) (*Bank, error) {
	raw, err := readValidated(src.CommonPath, CommonSchema)
	if err != nil {
		return nil, err
	}
	common, err := parseCommon(raw)
	if err != nil {
		return nil, &LoadError{Path: src.CommonPath, Err: err}
	}
	if len(common) == 0 {
		return nil, &LoadError{Path: src.CommonPath, Err: errors.New("no usable questions")}
	}

	roles := make([]RoleSet, 0, len(src.Roles))
	for _, rs := range src.Roles {
		raw, err := readValidated(rs.Path, RoleSchema)
		if err != nil {
			return nil, err
		}
		questions, err := parseRole(raw, rs.Slug, rs.Title)
		if err != nil {
			return nil, &LoadError{Path: rs.Path, Err: err}
		}
		if len(questions) == 0 {
			return nil, &LoadError{Path: rs.Path, Err: fmt.Errorf("role %q has no usable questions", rs.Slug)}
		}
		roles = append(roles, RoleSet{
			Slug:          rs.Slug,
			Title:         rs.Title,
			BlockTwoCount: rs.BlockTwoCount,
			Questions:     questions,
		})
	}
	return New(common, roles...), nil
}

func readValidated(path string, schema *Schema) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := validateDocument(schema, raw); err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	return raw, nil
}

// flexString decodes a JSON string or number into its string form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type rawPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type commonFile struct {
	Tests []struct {
		TestCode  flexString `json:"test_code"`
		TestName  string     `json:"test_name"`
		Questions []struct {
			Type        string      `json:"type"`
			Question    string      `json:"question"`
			Correct     bool        `json:"correct"`
			Explanation string      `json:"explanation"`
			Options     []rawOption `json:"options"`
		} `json:"questions"`
	} `json:"tests"`
}

type roleFile struct {
	Questions []struct {
		ID          flexString  `json:"id"`
		Question    string      `json:"question"`
		Topic       string      `json:"topic"`
		Explanation string      `json:"explanation"`
		Options     []rawOption `json:"options"`
		Pairs       []rawPair   `json:"pairs"`
	} `json:"questions"`
}

// Common question kinds. Other kinds cannot be answered with buttons and are
// skipped.
const (
	kindMultipleChoice = "multiple_choice"
	kindTrueFalse      = "true_false"
)

func parseCommon(raw []byte) ([]quiz.Blueprint, error) {
	var f commonFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode common questions: %w", err)
	}

	var out []quiz.Blueprint
	for _, test := range f.Tests {
		code := strings.TrimSpace(string(test.TestCode))
		name := strings.TrimSpace(test.TestName)
		for _, q := range test.Questions {
			prompt := strings.TrimSpace(q.Question)
			if prompt == "" {
				continue
			}
			var options []quiz.Option
			switch q.Type {
			case kindMultipleChoice:
				options = cleanOptions(q.Options)
			case kindTrueFalse:
				options = []quiz.Option{
					{Text: "Yes", IsCorrect: q.Correct},
					{Text: "No", IsCorrect: !q.Correct},
				}
			default:
				continue
			}
			if !usable(options) {
				continue
			}
			out = append(out, quiz.Blueprint{
				Prompt:      codePrefixed(prompt, code),
				Topic:       commonTopic(code, name),
				Options:     options,
				Explanation: explanation(options, q.Explanation),
				Meta: map[string]string{
					"source":    "common",
					"test_code": code,
					"test_name": name,
				},
			})
		}
	}
	return out, nil
}

func parseRole(raw []byte, slug, title string) ([]quiz.Blueprint, error) {
	var f roleFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode role questions: %w", err)
	}

	var out []quiz.Blueprint
	for i, q := range f.Questions {
		prompt := strings.TrimSpace(q.Question)
		if prompt == "" {
			continue
		}
		id := strings.TrimSpace(string(q.ID))
		if id == "" {
			id = fmt.Sprint(i + 1)
		}
		topic := strings.TrimSpace(q.Topic)
		if topic == "" {
			topic = title
		}
		bp := quiz.Blueprint{
			Prompt: fmt.Sprintf("[%s] Q%s. %s", title, id, prompt),
			Topic:  topic,
			Meta: map[string]string{
				"source":     slug,
				"role_title": title,
			},
		}

		if len(q.Pairs) > 0 {
			for _, p := range q.Pairs {
				bp.Pairs = append(bp.Pairs, quiz.Pair{
					Left:  strings.TrimSpace(p.Left),
					Right: strings.TrimSpace(p.Right),
				})
			}
			bp.Explanation = pairsExplanation(bp.Pairs, q.Explanation)
			out = append(out, bp)
			continue
		}

		bp.Options = cleanOptions(q.Options)
		if !usable(bp.Options) {
			continue
		}
		bp.Explanation = explanation(bp.Options, q.Explanation)
		out = append(out, bp)
	}
	return out, nil
}

func cleanOptions(raw []rawOption) []quiz.Option {
	var out []quiz.Option
	for _, o := range raw {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			continue
		}
		out = append(out, quiz.Option{Text: text, IsCorrect: o.Correct})
	}
	return out
}

func usable(options []quiz.Option) bool {
	for _, o := range options {
		if o.IsCorrect {
			return true
		}
	}
	return false
}
