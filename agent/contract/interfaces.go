package contract

import "context"

// Classifier labels one inbound message with an Intent.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)
}

// Assistant runs one generation call. In ModeAct it may return tool requests
// instead of (or alongside) free text; all other modes return text only.
type Assistant interface {
	Run(ctx context.Context, req AssistantRequest) (AssistantResponse, error)
}

type Registry interface {
	Classifier() Classifier
	Assistant() Assistant
}

// Retriever is the external similarity-search collaborator. It must be
// safely callable with an empty knowledge base (returns an empty slice).
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// Notifier delivers the captured lead to an external channel. Failures are
// caught and degraded by the capture guard; they never abort a turn.
type Notifier interface {
	Deliver(ctx context.Context, name, email, platform string) error
}

// Dialogue is the per-turn entry point shared by both orchestration
// strategies.
type Dialogue interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, error)
}
