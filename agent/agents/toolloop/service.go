package toolloop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	leadx "github.com/autostream/leadgen-agent/agent/lead"
	nodex "github.com/autostream/leadgen-agent/agent/nodes"
	retrievalx "github.com/autostream/leadgen-agent/agent/retrieval"
	statex "github.com/autostream/leadgen-agent/agent/state"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
)

const fallbackAskText = "Could you share your full name, email address, and the platform you create content on?"

// Service is the single-model strategy: one tool-calling assistant decides
// per turn whether to answer, ask, or invoke the capture tool. The guard
// still owns the gate, so a premature tool call never fires the side effect.
type Service struct {
	store     statex.Store
	assistant contractx.Assistant
	builder   *retrievalx.ContextBuilder
	guard     *toolx.Guard

	now func() time.Time
}

var _ contractx.Dialogue = (*Service)(nil)

func New(
	store statex.Store,
	assistant contractx.Assistant,
	builder *retrievalx.ContextBuilder,
	guard *toolx.Guard,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if builder == nil {
		return nil, errors.New("context builder is required")
	}
	if guard == nil {
		return nil, errors.New("capture guard is required")
	}

	return &Service{
		store:     store,
		assistant: assistant,
		builder:   builder,
		guard:     guard,
		now:       time.Now,
	}, nil
}

func (s *Service) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	in, err := nodex.ValidateRequest(nodex.GraphInput{SessionID: sessionID, Text: text}, s.now)
	if err != nil {
		return "", err
	}
	if _, err := nodex.LoadOrCreateSession(ctx, in, s.store); err != nil {
		return "", err
	}
	sess := in.Session

	sess.AppendUser(in.Text)
	sess.Lead = leadx.Extract(in.Text, sess.Lead)

	grounding, err := s.builder.Build(ctx, in.Text)
	if err != nil {
		return "", err
	}

	record := sess.Lead
	history := historyBeforeCurrentTurn(sess)

	draft, err := s.assistant.Run(ctx, contractx.AssistantRequest{
		Mode:        contractx.ModeAct,
		UserMessage: in.Text,
		Grounding:   grounding,
		Lead:        &record,
		History:     history,
	})
	if err != nil {
		return "", err
	}

	reply, err := s.resolveTurn(ctx, in, draft, grounding, history)
	if err != nil {
		return "", err
	}

	sess.AppendAssistant(reply)
	sess.Window.Truncate()
	sess.Touch(in.Now)
	if err := sess.Validate(); err != nil {
		return "", fmt.Errorf("session validation failed: %w", err)
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return "", err
	}

	return reply, nil
}

// resolveTurn turns the draft into the final reply, running the capture tool
// round when the model requested it.
func (s *Service) resolveTurn(
	ctx context.Context,
	in *nodex.GraphState,
	draft contractx.AssistantResponse,
	grounding string,
	history []statex.Entry,
) (string, error) {
	if len(draft.ToolRequests) == 0 {
		message := strings.TrimSpace(draft.Message)
		if message == "" {
			return "", fmt.Errorf("%w: assistant produced neither text nor tool call", contractx.ErrSchemaViolation)
		}
		return message, nil
	}

	req := draft.ToolRequests[0]
	if req.Tool != toolx.ToolLeadCapture {
		return "", fmt.Errorf("%w: unexpected tool request %q", contractx.ErrSchemaViolation, req.Tool)
	}

	sess := in.Session
	outcome := s.guard.AttemptCapture(ctx, req.Args, sess)
	switch outcome.Kind {
	case toolx.OutcomeRejected:
		// Premature call: fall back to the draft text or a direct ask.
		if message := strings.TrimSpace(draft.Message); message != "" {
			return message, nil
		}
		return fallbackAskText, nil

	case toolx.OutcomeValidationFailed:
		return outcome.Message, nil

	case toolx.OutcomeExecuted:
		rawArgs, _ := json.Marshal(req.Args)
		sess.AppendAssistantToolCall("", statex.ToolCall{
			Name:      req.Tool,
			Arguments: string(rawArgs),
		})
		sess.AppendToolResult(outcome.Message)

		record := sess.Lead
		final, err := s.assistant.Run(ctx, contractx.AssistantRequest{
			Mode:        contractx.ModeFinalize,
			UserMessage: in.Text,
			Grounding:   grounding,
			Lead:        &record,
			History:     history,
			ToolResults: []contractx.ToolResult{
				{Tool: req.Tool, Result: outcome.Message},
			},
		})
		if err != nil || strings.TrimSpace(final.Message) == "" {
			// The capture already counted; never lose the confirmation.
			if err != nil {
				log.Warn().Err(err).
					Str("session_id", sess.SessionID).
					Msg("finalize call failed, using confirmation text")
			}
			return outcome.Message, nil
		}
		return strings.TrimSpace(final.Message), nil

	default:
		return "", fmt.Errorf("%w: unknown capture outcome %q", contractx.ErrValidation, outcome.Kind)
	}
}

func historyBeforeCurrentTurn(sess *statex.SessionState) []statex.Entry {
	entries := sess.Window.Entries
	if n := len(entries); n > 0 && entries[n-1].Role == statex.RoleUser {
		return entries[:n-1]
	}
	return entries
}
