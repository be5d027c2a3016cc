package dialognode

import (
	"fmt"
	"strings"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	statex "github.com/autostream/leadgen-agent/agent/state"
)

func AppendUserTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.AppendUser(in.Text)
	return in, nil
}

// AppendAssistantTurn records the reply and enforces the window bound before
// the session is persisted.
func AppendAssistantTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(in.Reply) == "" {
		return nil, fmt.Errorf("%w: assistant reply is empty", contractx.ErrValidation)
	}

	in.Session.AppendAssistant(in.Reply)
	in.Session.Window.Truncate()
	return in, nil
}

// historyBeforeCurrentTurn returns the window minus the user entry appended
// this turn, so the model does not see the live message twice.
func historyBeforeCurrentTurn(sess *statex.SessionState) []statex.Entry {
	entries := sess.Window.Entries
	if n := len(entries); n > 0 && entries[n-1].Role == statex.RoleUser {
		return entries[:n-1]
	}
	return entries
}
