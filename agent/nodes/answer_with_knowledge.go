package dialognode

import (
	"context"
	"fmt"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	retrievalx "github.com/autostream/leadgen-agent/agent/retrieval"
)

// AnswerWithKnowledge grounds the user's question on retrieved passages and
// asks the assistant for an answer constrained to them.
func AnswerWithKnowledge(
	ctx context.Context,
	in *GraphState,
	builder *retrievalx.ContextBuilder,
	assistant contractx.Assistant,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	grounding, err := builder.Build(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	in.Grounding = grounding

	resp, err := assistant.Run(ctx, contractx.AssistantRequest{
		Mode:        contractx.ModeAnswer,
		UserMessage: in.Text,
		Grounding:   grounding,
		History:     historyBeforeCurrentTurn(in.Session),
	})
	if err != nil {
		return nil, err
	}

	in.Reply = resp.Message
	return in, nil
}
