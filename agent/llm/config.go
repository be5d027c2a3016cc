package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
	openrouterx "github.com/autostream/leadgen-agent/pkg/openrouter"
)

// Config carries the shared LLM settings plus per-role overrides. The
// classifier wants a deterministic model; the assistant a conversational one.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ClassifierModel       string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	AssistantModel        string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	ClassifierTemperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" split_words:"true" default:"0"`
	AssistantTemperature  float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the concrete model configuration for one role.
func (c Config) OpenRouterFor(role contractx.AgentRole) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case contractx.AgentRoleClassifier:
		if v := strings.TrimSpace(c.ClassifierModel); v != "" {
			modelName = v
		}
		if c.ClassifierTemperature >= 0 {
			temp = c.ClassifierTemperature
		}
	case contractx.AgentRoleAssistant:
		if v := strings.TrimSpace(c.AssistantModel); v != "" {
			modelName = v
		}
		if c.AssistantTemperature >= 0 {
			temp = c.AssistantTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
