package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	statex "github.com/autostream/leadgen-agent/agent/state"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
)

// Prompts holds the system prompts the assistant modes run on.
type Prompts struct {
	Answer  string
	Collect string
	Agent   string
}

func (p Prompts) validate() error {
	for _, pair := range []struct {
		name string
		text string
	}{
		{"answer", p.Answer},
		{"collect", p.Collect},
		{"agent", p.Agent},
	} {
		if strings.TrimSpace(pair.text) == "" {
			return fmt.Errorf("%w: assistant prompt %q is empty", contractx.ErrPromptMissing, pair.name)
		}
	}
	return nil
}

// Assistant runs one of four chat pipelines depending on the requested mode.
// Answer and ask are plain replies; act binds the lead_capture tool; finalize
// writes the closing reply after a tool round.
type Assistant struct {
	runners      map[contractx.AssistantMode]compose.Runnable[map[string]any, *schema.Message]
	allowedTools map[string]struct{}
	streaming    bool
}

var _ contractx.Assistant = (*Assistant)(nil)

func New(ctx context.Context, chatModel einomodel.ToolCallingChatModel, prompts Prompts, streaming bool) (*Assistant, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: assistant requires a chat model", contractx.ErrValidation)
	}
	if err := prompts.validate(); err != nil {
		return nil, err
	}

	tools := []*schema.ToolInfo{toolx.CaptureToolInfo()}
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind lead_capture tool: %v", contractx.ErrModelInvoke, err)
	}

	answerRunner, err := compileChatGraph(ctx, chatModel, prompts.Answer, "assistant.answer_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	askRunner, err := compileChatGraph(ctx, chatModel, prompts.Collect, "assistant.collect_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	actRunner, err := compileChatGraph(ctx, toolModel, prompts.Agent, "assistant.act_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	finalizeRunner, err := compileChatGraph(ctx, chatModel, prompts.Agent, "assistant.finalize_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	allowedTools := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowedTools[t.Name] = struct{}{}
	}

	return &Assistant{
		runners: map[contractx.AssistantMode]compose.Runnable[map[string]any, *schema.Message]{
			contractx.ModeAnswer:   answerRunner,
			contractx.ModeAsk:      askRunner,
			contractx.ModeAct:      actRunner,
			contractx.ModeFinalize: finalizeRunner,
		},
		allowedTools: allowedTools,
		streaming:    streaming,
	}, nil
}

func (a *Assistant) Run(ctx context.Context, req contractx.AssistantRequest) (contractx.AssistantResponse, error) {
	runner, ok := a.runners[req.Mode]
	if !ok {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: unknown assistant mode %q", contractx.ErrValidation, req.Mode)
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: empty user message", contractx.ErrValidation)
	}

	input, err := marshalPayload(req)
	if err != nil {
		return contractx.AssistantResponse{}, err
	}

	vars := map[string]any{
		"input":   input,
		"history": toModelHistory(req.History),
	}

	msg, err := a.invoke(ctx, runner, vars)
	if err != nil {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: assistant invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: assistant returned no message", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.AssistantResponse{}, err
	}
	if req.Mode != contractx.ModeAct && len(toolRequests) > 0 {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: tool calls outside act mode", contractx.ErrSchemaViolation)
	}
	for _, tr := range toolRequests {
		if _, allowed := a.allowedTools[tr.Tool]; !allowed {
			return contractx.AssistantResponse{}, fmt.Errorf("%w: tool %q is not allowed", contractx.ErrSchemaViolation, tr.Tool)
		}
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" && len(toolRequests) == 0 {
		return contractx.AssistantResponse{}, fmt.Errorf("%w: assistant reply is empty", contractx.ErrSchemaViolation)
	}

	return contractx.AssistantResponse{
		Message:      content,
		ToolRequests: toolRequests,
	}, nil
}

// invoke runs the graph in blocking or streaming mode. Streamed chunks are
// concatenated so tool call fragments reassemble into complete calls.
func (a *Assistant) invoke(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	vars map[string]any,
) (*schema.Message, error) {
	if !a.streaming {
		return runner.Invoke(ctx, vars)
	}

	reader, err := runner.Stream(ctx, vars)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, recvErr := reader.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("empty stream")
	}
	return schema.ConcatMessages(chunks)
}

func marshalPayload(req contractx.AssistantRequest) (string, error) {
	payload := map[string]any{
		"message": req.UserMessage,
	}
	if req.Grounding != "" {
		payload["grounding"] = req.Grounding
	}
	if req.Lead != nil {
		payload["known"] = req.Lead.Known()
		payload["missing"] = req.Lead.MissingFields()
	}
	if len(req.ToolResults) > 0 {
		payload["tool_results"] = req.ToolResults
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal assistant payload: %v", contractx.ErrValidation, err)
	}
	return string(raw), nil
}

// toModelHistory converts stored window entries into chat messages. Tool
// entries are replayed as assistant text so the model keeps the thread
// without needing call IDs.
func toModelHistory(entries []statex.Entry) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(entries))
	for _, e := range entries {
		content := strings.TrimSpace(e.Content)
		switch e.Role {
		case statex.RoleUser:
			if content != "" {
				msgs = append(msgs, schema.UserMessage(content))
			}
		case statex.RoleAssistant:
			if content != "" {
				msgs = append(msgs, schema.AssistantMessage(content, nil))
			}
		case statex.RoleTool:
			if content != "" {
				msgs = append(msgs, schema.AssistantMessage(fmt.Sprintf("[tool result] %s", content), nil))
			}
		}
	}
	return msgs
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{Tool: tool, Args: args})
	}
	return reqs, nil
}
