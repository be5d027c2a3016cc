package dialognode

import (
	"context"
	"fmt"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	leadx "github.com/autostream/leadgen-agent/agent/lead"
)

// CollectLead folds the message into the lead record and, when fields are
// still missing, asks for the first one. A complete record leaves Reply empty
// so the capture branch takes over.
func CollectLead(ctx context.Context, in *GraphState, assistant contractx.Assistant) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.Lead = leadx.Extract(in.Text, in.Session.Lead)

	if in.Session.Lead.IsComplete() {
		return in, nil
	}

	record := in.Session.Lead
	resp, err := assistant.Run(ctx, contractx.AssistantRequest{
		Mode:        contractx.ModeAsk,
		UserMessage: in.Text,
		Lead:        &record,
		History:     historyBeforeCurrentTurn(in.Session),
	})
	if err != nil {
		return nil, err
	}

	in.Reply = resp.Message
	return in, nil
}
