package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	leadx "github.com/autostream/leadgen-agent/agent/lead"
)

// MaxWindowEntries bounds the conversation window to the most recent 12
// entries (6 user/assistant turn pairs). Older entries drop from the front.
const MaxWindowEntries = 12

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a pending capture request attached to an assistant entry.
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

type Entry struct {
	Role     Role      `json:"role"`
	Content  string    `json:"content"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// Window is the bounded, insertion-ordered conversation history.
type Window struct {
	Entries []Entry `json:"entries,omitempty"`
}

func (w *Window) Append(e Entry) {
	w.Entries = append(w.Entries, e)
}

// Truncate drops entries from the front until the bound holds. Called once
// after each completed turn.
func (w *Window) Truncate() {
	if len(w.Entries) > MaxWindowEntries {
		w.Entries = append([]Entry(nil), w.Entries[len(w.Entries)-MaxWindowEntries:]...)
	}
}

func (w *Window) Len() int {
	return len(w.Entries)
}

// SessionState is the per-session source of truth: one lead record, one
// conversation window, the monotonic capture flag, and the last detected
// intent. The transport layer owns its lifetime; the orchestrator receives
// it by reference each turn.
type SessionState struct {
	SessionID    string       `json:"session_id"`
	Lead         leadx.Record `json:"lead"`
	Window       Window       `json:"window"`
	LeadCaptured bool         `json:"lead_captured"`
	LastIntent   string       `json:"last_intent,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// MarkLeadCaptured flips the capture flag and reports whether this call was
// the false-to-true transition. The flag is never reset.
func (s *SessionState) MarkLeadCaptured() bool {
	if s.LeadCaptured {
		return false
	}
	s.LeadCaptured = true
	return true
}

func (s *SessionState) AppendUser(text string) {
	s.Window.Append(Entry{Role: RoleUser, Content: text})
}

func (s *SessionState) AppendAssistant(text string) {
	s.Window.Append(Entry{Role: RoleAssistant, Content: text})
}

func (s *SessionState) AppendAssistantToolCall(text string, call ToolCall) {
	s.Window.Append(Entry{Role: RoleAssistant, Content: text, ToolCall: &call})
}

func (s *SessionState) AppendToolResult(text string) {
	s.Window.Append(Entry{Role: RoleTool, Content: text})
}

var ErrWindowOverflow = errors.New("conversation window exceeds bound")

func (s *SessionState) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	if s.Window.Len() > MaxWindowEntries {
		return fmt.Errorf("%w: %d entries", ErrWindowOverflow, s.Window.Len())
	}
	return nil
}
