package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	nodex "github.com/autostream/leadgen-agent/agent/nodes"
	retrievalx "github.com/autostream/leadgen-agent/agent/retrieval"
	statex "github.com/autostream/leadgen-agent/agent/state"
	toolx "github.com/autostream/leadgen-agent/agent/tool"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Orchestrator runs the staged turn pipeline: classify first, then route to
// exactly one of the greeting, answering, or lead-collection paths.
type Orchestrator struct {
	store    statex.Store
	models   contractx.Registry
	builder  *retrievalx.ContextBuilder
	guard    *toolx.Guard
	greeting string

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

var _ contractx.Dialogue = (*Orchestrator)(nil)

func New(
	store statex.Store,
	models contractx.Registry,
	builder *retrievalx.ContextBuilder,
	guard *toolx.Guard,
	greeting string,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if builder == nil {
		return nil, errors.New("context builder is required")
	}
	if guard == nil {
		return nil, errors.New("capture guard is required")
	}
	if strings.TrimSpace(greeting) == "" {
		return nil, errors.New("greeting text is required")
	}

	o := &Orchestrator{
		store:    store,
		models:   models,
		builder:  builder,
		guard:    guard,
		greeting: greeting,
		now:      time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
