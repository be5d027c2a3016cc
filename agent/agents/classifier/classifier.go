package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

const (
	nodeTemplate = "template"
	nodeModel    = "model"
	nodeParser   = "parser"
)

// classifierOutput is the JSON shape the model is instructed to emit.
type classifierOutput struct {
	Intent string `json:"intent"`
}

// Classifier labels one user message with an intent using a compiled graph:
// prompt template -> chat model -> JSON parser.
type Classifier struct {
	runner compose.Runnable[map[string]any, classifierOutput]
}

var _ contractx.Classifier = (*Classifier)(nil)

func New(ctx context.Context, chatModel model.ToolCallingChatModel, systemPrompt string) (*Classifier, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: classifier requires a chat model", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier system prompt is empty", contractx.ErrPromptMissing)
	}

	template := prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[classifierOutput](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	g := compose.NewGraph[map[string]any, classifierOutput]()
	if err := g.AddChatTemplateNode(nodeTemplate, template); err != nil {
		return nil, fmt.Errorf("classifier: add template node: %w", err)
	}
	if err := g.AddChatModelNode(nodeModel, chatModel); err != nil {
		return nil, fmt.Errorf("classifier: add model node: %w", err)
	}
	if err := g.AddLambdaNode(nodeParser, compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("classifier: add parser node: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodeTemplate},
		{nodeTemplate, nodeModel},
		{nodeModel, nodeParser},
		{nodeParser, compose.END},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("classifier: add edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runner, err := g.Compile(ctx, compose.WithGraphName("intent_classifier"))
	if err != nil {
		return nil, fmt.Errorf("classifier: compile graph: %w", err)
	}

	return &Classifier{runner: runner}, nil
}

func (c *Classifier) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.ClassifyResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: empty user message", contractx.ErrValidation)
	}

	payload, err := json.Marshal(map[string]string{
		"message":     req.UserMessage,
		"last_intent": string(req.LastIntent),
	})
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("classifier: marshal input: %w", err)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{"input": string(payload)})
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	intent := contractx.Intent(strings.TrimSpace(strings.ToLower(out.Intent)))
	if !intent.Valid() {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: unknown intent label %q", contractx.ErrSchemaViolation, out.Intent)
	}

	return contractx.ClassifyResponse{Intent: intent}, nil
}
