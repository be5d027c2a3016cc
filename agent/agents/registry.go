package agents

import (
	"context"
	"fmt"

	"github.com/autostream/leadgen-agent/agent/agents/assistant"
	"github.com/autostream/leadgen-agent/agent/agents/classifier"
	contractx "github.com/autostream/leadgen-agent/agent/contract"
	llmx "github.com/autostream/leadgen-agent/agent/llm"
	promptx "github.com/autostream/leadgen-agent/agent/prompt"
)

type registryImpl struct {
	classifier contractx.Classifier
	assistant  contractx.Assistant
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) Assistant() contractx.Assistant {
	return r.assistant
}

// NewRegistry builds both agents, each on its role-specific model config.
func NewRegistry(ctx context.Context, cfg llmx.Config, prompts promptx.PromptSet, streaming bool) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	classifierModelCfg := cfg.OpenRouterFor(contractx.AgentRoleClassifier)
	classifierModel, err := classifierModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, err)
	}
	assistantModelCfg := cfg.OpenRouterFor(contractx.AgentRoleAssistant)
	assistantModel, err := assistantModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create assistant model: %v", contractx.ErrModelInvoke, err)
	}

	cls, err := classifier.New(ctx, classifierModel, prompts.Intent)
	if err != nil {
		return nil, err
	}

	asst, err := assistant.New(ctx, assistantModel, assistant.Prompts{
		Answer:  prompts.Answer,
		Collect: prompts.Collect,
		Agent:   prompts.Agent,
	}, streaming)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		classifier: cls,
		assistant:  asst,
	}, nil
}
