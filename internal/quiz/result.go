package quiz

// Result is the outcome of one answered question. Results are appended once
// per answered question and never modified afterwards.
type Result struct {
	Question  Question
	IsCorrect bool
	Answer    Answer
}
