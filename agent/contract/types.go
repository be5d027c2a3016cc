package contract

import (
	leadx "github.com/autostream/leadgen-agent/agent/lead"
	statex "github.com/autostream/leadgen-agent/agent/state"
)

type AgentRole string

const (
	AgentRoleClassifier AgentRole = "classifier"
	AgentRoleAssistant  AgentRole = "assistant"
)

// Intent is the classified label of one inbound message. The label set is
// fixed; routing is a pure function of it.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentInquiry        Intent = "inquiry"
	IntentHighIntentLead Intent = "high_intent_lead"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentInquiry, IntentHighIntentLead:
		return true
	}
	return false
}

type ClassifyRequest struct {
	UserMessage string `json:"user_message"`
	LastIntent  Intent `json:"last_intent,omitempty"`
}

type ClassifyResponse struct {
	Intent Intent `json:"intent"`
}

// AssistantMode selects which generation flow the assistant runs.
type AssistantMode string

const (
	// ModeAnswer answers a question grounded on retrieved context.
	ModeAnswer AssistantMode = "answer"
	// ModeAsk produces a follow-up targeting the first missing lead field.
	ModeAsk AssistantMode = "ask"
	// ModeAct is the tool-loop draft call with the capture action bound.
	ModeAct AssistantMode = "act"
	// ModeFinalize incorporates tool results into the turn's final text.
	ModeFinalize AssistantMode = "finalize"
)

type AssistantRequest struct {
	Mode        AssistantMode  `json:"mode"`
	UserMessage string         `json:"user_message"`
	Grounding   string         `json:"grounding,omitempty"`
	Lead        *leadx.Record  `json:"lead,omitempty"`
	History     []statex.Entry `json:"history,omitempty"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
}

type AssistantResponse struct {
	Message      string        `json:"message"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Passage is one retrieved knowledge-base snippet.
type Passage struct {
	Content string   `json:"content"`
	Score   *float64 `json:"score,omitempty"`
}
