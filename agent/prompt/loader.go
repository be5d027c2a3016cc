package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

var (
	//go:embed template/intent.txt
	intentRaw string

	//go:embed template/greeting.txt
	greetingRaw string

	//go:embed template/answer.txt
	answerRaw string

	//go:embed template/collect.txt
	collectRaw string

	//go:embed template/agent.txt
	agentRaw string
)

// PromptSet holds every prompt the agents need. Greeting is reply text, not
// a system prompt; the greeting state answers with it verbatim.
type PromptSet struct {
	Intent   string
	Greeting string
	Answer   string
	Collect  string
	Agent    string
}

// Load returns the trimmed prompt set. An empty template is a fatal
// configuration error surfaced at startup, never per turn.
func Load() (PromptSet, error) {
	set := PromptSet{
		Intent:   strings.TrimSpace(intentRaw),
		Greeting: strings.TrimSpace(greetingRaw),
		Answer:   strings.TrimSpace(answerRaw),
		Collect:  strings.TrimSpace(collectRaw),
		Agent:    strings.TrimSpace(agentRaw),
	}

	for name, content := range map[string]string{
		"intent":   set.Intent,
		"greeting": set.Greeting,
		"answer":   set.Answer,
		"collect":  set.Collect,
		"agent":    set.Agent,
	} {
		if content == "" {
			return PromptSet{}, fmt.Errorf("%w: template %q is empty", contractx.ErrPromptMissing, name)
		}
	}

	return set, nil
}

func MustLoad() PromptSet {
	set, err := Load()
	if err != nil {
		panic(err)
	}
	return set
}
