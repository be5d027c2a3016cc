package dialognode

import (
	"context"
	"fmt"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	leadx "github.com/autostream/leadgen-agent/agent/lead"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
)

const captureFallbackText = "Thanks! Could you share your full name, email, and the platform you create content on?"

// CaptureLead hands the complete record to the guard. The guard owns the
// gate: it validates, delivers, and flips the captured flag.
func CaptureLead(ctx context.Context, in *GraphState, guard *toolx.Guard) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	args := map[string]any{
		leadx.FieldName:     in.Session.Lead.Name,
		leadx.FieldEmail:    in.Session.Lead.Email,
		leadx.FieldPlatform: in.Session.Lead.Platform,
	}

	outcome := guard.AttemptCapture(ctx, args, in.Session)
	switch outcome.Kind {
	case toolx.OutcomeExecuted, toolx.OutcomeValidationFailed:
		in.Reply = outcome.Message
	case toolx.OutcomeRejected:
		in.Reply = captureFallbackText
	default:
		return nil, fmt.Errorf("%w: unknown capture outcome %q", contractx.ErrValidation, outcome.Kind)
	}
	return in, nil
}
