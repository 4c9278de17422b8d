package bank

import (
	"strings"

	"github.com/abhisek/attestiz/internal/quiz"
)

func codePrefixed(prompt, code string) string {
	prefix := "[Code " + code + "] "
	if strings.HasPrefix(prompt, prefix) {
		return prompt
	}
	return prefix + prompt
}

func commonTopic(code, name string) string {
	if name == "" {
		return "Test " + code
	}
	return "Test " + code + ": " + name
}

// explanation returns the authored explanation, or one listing the correct
// option texts.
func explanation(options []quiz.Option, authored string) string {
	if s := strings.TrimSpace(authored); s != "" {
		return s
	}
	var correct []string
	for _, o := range options {
		if o.IsCorrect {
			correct = append(correct, o.Text)
		}
	}
	if len(correct) == 0 {
		return "Correct answer unavailable."
	}
	return "Correct answer: " + strings.Join(correct, "; ")
}

func pairsExplanation(pairs []quiz.Pair, authored string) string {
	if s := strings.TrimSpace(authored); s != "" {
		return s
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Left + " → " + p.Right
	}
	return "Correct answer: " + strings.Join(parts, "; ")
}
