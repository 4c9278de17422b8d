package session

import (
	"github.com/abhisek/attestiz/internal/proctor"
)

// replyMsg carries the result of a Service.Apply call.
type replyMsg struct {
	reply proctor.Reply
	err   error
}
