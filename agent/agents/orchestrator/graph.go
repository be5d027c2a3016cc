package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	nodex "github.com/autostream/leadgen-agent/agent/nodes"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_session: %w", err)
	}

	if err := graph.AddLambdaNode("append_user_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendUserTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_user_turn: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(ctx, in, o.models.Classifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("greeting",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Greeting(in, o.greeting)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node greeting: %w", err)
	}

	if err := graph.AddLambdaNode("answer_with_knowledge",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AnswerWithKnowledge(ctx, in, o.builder, o.models.Assistant())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node answer_with_knowledge: %w", err)
	}

	if err := graph.AddLambdaNode("collect_lead",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CollectLead(ctx, in, o.models.Assistant())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node collect_lead: %w", err)
	}

	if err := graph.AddLambdaNode("capture_lead",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CaptureLead(ctx, in, o.guard)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node capture_lead: %w", err)
	}

	if err := graph.AddLambdaNode("append_assistant_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendAssistantTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_assistant_turn: %w", err)
	}

	if err := graph.AddLambdaNode("save_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	intentBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			switch in.Intent {
			case contractx.IntentGreeting:
				return "greeting", nil
			case contractx.IntentHighIntentLead:
				return "collect_lead", nil
			default:
				return "answer_with_knowledge", nil
			}
		},
		map[string]bool{
			"greeting":              true,
			"answer_with_knowledge": true,
			"collect_lead":          true,
		},
	)
	if err := graph.AddBranch("classify_intent", intentBranch); err != nil {
		return nil, fmt.Errorf("add intent branch: %w", err)
	}

	// Collection either asked a question (Reply set) or completed the record
	// and defers to the capture guard.
	captureBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in.Reply == "" {
				return "capture_lead", nil
			}
			return "append_assistant_turn", nil
		},
		map[string]bool{
			"capture_lead":          true,
			"append_assistant_turn": true,
		},
	)
	if err := graph.AddBranch("collect_lead", captureBranch); err != nil {
		return nil, fmt.Errorf("add capture branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_session"},
		{"load_or_create_session", "append_user_turn"},
		{"append_user_turn", "classify_intent"},
		{"greeting", "append_assistant_turn"},
		{"answer_with_knowledge", "append_assistant_turn"},
		{"capture_lead", "append_assistant_turn"},
		{"append_assistant_turn", "save_session"},
		{"save_session", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dialogue.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile dialogue graph: %w", err)
	}
	return runner, nil
}
