package quiz

import "errors"

var (
	// ErrUnknownRole is returned when a role slug has no registered pool.
	ErrUnknownRole = errors.New("unknown role")

	// ErrStaleQuestion is returned when an interaction targets a question
	// that is no longer the live one.
	ErrStaleQuestion = errors.New("stale question")

	// ErrIncompleteMapping is returned when a matching answer is submitted
	// before every left item has an assigned right item.
	ErrIncompleteMapping = errors.New("incomplete mapping")

	// ErrEmptySelection is returned when a multi-choice answer is submitted
	// with nothing selected.
	ErrEmptySelection = errors.New("empty selection")

	// ErrNoFocus is returned when a right item is picked with no left item focused.
	ErrNoFocus = errors.New("no left item focused")
)
