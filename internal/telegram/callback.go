package telegram

import (
	"errors"
	"strings"

	"github.com/abhisek/attestiz/internal/session"
)

// ErrBadCallback is returned for callback payloads this bot never produced.
var ErrBadCallback = errors.New("unrecognized callback data")

const rolePrefix = "role|"

// Callback is a decoded inline button payload: either a role choice or a
// session action.
type Callback struct {
	Role   string
	Action session.Action
}

// IsRole reports whether the callback selects a role.
func (c Callback) IsRole() bool { return c.Role != "" }

// RoleData encodes the payload of a role button.
func RoleData(slug string) string {
	return rolePrefix + slug
}

// ActionData encodes the payload of an action button.
func ActionData(a session.Action) string {
	switch a.Kind {
	case session.ActionChoose:
		return join("sc", a.QuestionID, a.Target)
	case session.ActionToggle:
		return join("mc", "toggle", a.QuestionID, a.Target)
	case session.ActionResetSelection:
		return join("mc", "reset", a.QuestionID)
	case session.ActionSubmitSelection:
		return join("mc", "submit", a.QuestionID)
	case session.ActionSelectLeft:
		return join("match", "select", a.QuestionID, a.Target)
	case session.ActionAssign:
		return join("match", "assign", a.QuestionID, a.Target)
	case session.ActionResetMatching:
		return join("match", "reset", a.QuestionID)
	case session.ActionSubmitMatching:
		return join("match", "submit", a.QuestionID)
	case session.ActionPrevious:
		return "nav|prev"
	case session.ActionNext:
		return "nav|next"
	}
	return ""
}

func join(parts ...string) string {
	return strings.Join(parts, "|")
}

// ParseCallback decodes data produced by RoleData or ActionData.
func ParseCallback(data string) (Callback, error) {
	if slug, ok := strings.CutPrefix(data, rolePrefix); ok {
		if slug == "" {
			return Callback{}, ErrBadCallback
		}
		return Callback{Role: slug}, nil
	}

	p := strings.Split(data, "|")
	act := func(kind session.ActionKind, qid, target string) (Callback, error) {
		if qid == "" {
			return Callback{}, ErrBadCallback
		}
		return Callback{Action: session.Action{Kind: kind, QuestionID: qid, Target: target}}, nil
	}

	switch {
	case len(p) == 3 && p[0] == "sc":
		return act(session.ActionChoose, p[1], p[2])
	case len(p) == 2 && p[0] == "nav" && p[1] == "prev":
		return Callback{Action: session.Action{Kind: session.ActionPrevious}}, nil
	case len(p) == 2 && p[0] == "nav" && p[1] == "next":
		return Callback{Action: session.Action{Kind: session.ActionNext}}, nil
	case len(p) == 4 && p[0] == "mc" && p[1] == "toggle":
		return act(session.ActionToggle, p[2], p[3])
	case len(p) == 3 && p[0] == "mc" && p[1] == "reset":
		return act(session.ActionResetSelection, p[2], "")
	case len(p) == 3 && p[0] == "mc" && p[1] == "submit":
		return act(session.ActionSubmitSelection, p[2], "")
	case len(p) == 4 && p[0] == "match" && p[1] == "select":
		return act(session.ActionSelectLeft, p[2], p[3])
	case len(p) == 4 && p[0] == "match" && p[1] == "assign":
		return act(session.ActionAssign, p[2], p[3])
	case len(p) == 3 && p[0] == "match" && p[1] == "reset":
		return act(session.ActionResetMatching, p[2], "")
	case len(p) == 3 && p[0] == "match" && p[1] == "submit":
		return act(session.ActionSubmitMatching, p[2], "")
	}
	return Callback{}, ErrBadCallback
}
