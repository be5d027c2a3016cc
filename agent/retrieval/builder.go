package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

// DefaultTopK matches the original retriever's passage count.
const DefaultTopK = 4

// PlaceholderGrounding stands in when the knowledge base yields nothing, so
// the generation step always receives well-formed grounding text.
const PlaceholderGrounding = "no relevant information found"

// ContextBuilder formats top-k retrieved passages into grounding text with
// numbered separators.
type ContextBuilder struct {
	retriever contractx.Retriever
	topK      int
}

func NewContextBuilder(retriever contractx.Retriever, topK int) (*ContextBuilder, error) {
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ContextBuilder{retriever: retriever, topK: topK}, nil
}

func (b *ContextBuilder) Build(ctx context.Context, query string) (string, error) {
	passages, err := b.retriever.Search(ctx, query, b.topK)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrRetrieval, err)
	}
	if len(passages) == 0 {
		return PlaceholderGrounding, nil
	}

	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		parts = append(parts, fmt.Sprintf("--- Context %d ---\n%s\n", i+1, p.Content))
	}
	return strings.Join(parts, "\n"), nil
}
