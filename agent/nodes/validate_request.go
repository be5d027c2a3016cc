package dialognode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	statex "github.com/autostream/leadgen-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

// GraphState is the mutable carrier threaded through the turn pipeline.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session   *statex.SessionState
	Intent    contractx.Intent
	Grounding string

	Reply string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
