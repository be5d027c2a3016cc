package dialognode

import (
	"fmt"
	"strings"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

// Greeting replies with the canned welcome text. No model call is made on
// this path.
func Greeting(in *GraphState, greetingText string) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(greetingText) == "" {
		return nil, fmt.Errorf("%w: greeting text is empty", contractx.ErrPromptMissing)
	}

	in.Reply = strings.TrimSpace(greetingText)
	return in, nil
}
