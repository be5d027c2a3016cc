package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	contractx "github.com/autostream/leadgen-agent/agent/contract"
)

// Embedder turns texts into vectors. The production implementation calls the
// OpenAI embeddings endpoint; tests substitute a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type document struct {
	content string
	vector  []float64
}

// VectorStore is an in-memory cosine-similarity index over embedded chunks.
type VectorStore struct {
	embedder Embedder

	mu   sync.RWMutex
	docs []document
}

func NewVectorStore(embedder Embedder) (*VectorStore, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	return &VectorStore{embedder: embedder}, nil
}

// Add embeds and indexes the given chunks.
func (s *VectorStore) Add(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, chunk := range chunks {
		s.docs = append(s.docs, document{content: chunk, vector: vectors[i]})
	}
	return nil
}

// Search returns the top-k chunks by cosine similarity. An empty index
// yields an empty result, not an error.
func (s *VectorStore) Search(ctx context.Context, query string, k int) ([]contractx.Passage, error) {
	s.mu.RLock()
	empty := len(s.docs) == 0
	s.mu.RUnlock()
	if empty {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]contractx.Passage, 0, len(s.docs))
	for _, doc := range s.docs {
		score := cosine(queryVec, doc.vector)
		scored = append(scored, contractx.Passage{Content: doc.content, Score: &score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
