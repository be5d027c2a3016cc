package dialognode

import (
	"context"
	"fmt"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

func ClassifyIntent(ctx context.Context, in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	resp, err := classifier.Classify(ctx, contractx.ClassifyRequest{
		UserMessage: in.Text,
		LastIntent:  contractx.Intent(in.Session.LastIntent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrClassification, err)
	}

	in.Intent = resp.Intent
	in.Session.LastIntent = string(resp.Intent)
	return in, nil
}
