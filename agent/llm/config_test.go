package llm

import (
	"errors"
	"testing"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{APIKey: "sk-test", Model: "openai/gpt-4o-mini"}},
		{name: "missing api key", cfg: Config{Model: "openai/gpt-4o-mini"}, wantErr: true},
		{name: "missing model", cfg: Config{APIKey: "sk-test"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, contractx.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestOpenRouterForRoleOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:                "sk-test",
		Model:                 "openai/gpt-4o-mini",
		Temperature:           0.7,
		ClassifierModel:       "openai/gpt-4o-mini",
		AssistantModel:        "anthropic/claude-sonnet-4",
		ClassifierTemperature: 0,
		AssistantTemperature:  -1,
	}

	classifierCfg := cfg.OpenRouterFor(contractx.AgentRoleClassifier)
	if classifierCfg.Temperature != 0 {
		t.Fatalf("classifier temperature = %v, want 0", classifierCfg.Temperature)
	}
	if classifierCfg.Model != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected classifier model: %s", classifierCfg.Model)
	}

	assistantCfg := cfg.OpenRouterFor(contractx.AgentRoleAssistant)
	if assistantCfg.Model != "anthropic/claude-sonnet-4" {
		t.Fatalf("unexpected assistant model: %s", assistantCfg.Model)
	}
	if assistantCfg.Temperature != 0.7 {
		t.Fatalf("assistant temperature = %v, want shared default", assistantCfg.Temperature)
	}
}

func TestOpenRouterForDefaultsToSharedModel(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "sk-test", Model: "openai/gpt-4o-mini", Temperature: 0.5}

	got := cfg.OpenRouterFor(contractx.AgentRoleAssistant)
	if got.Model != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", got.Model)
	}
	if got.APIKey != "sk-test" {
		t.Fatalf("unexpected api key: %s", got.APIKey)
	}
}
