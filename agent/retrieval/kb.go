package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// maxChunkChars keeps chunks within a size that embeds well; paragraphs
	// are grouped until the limit is hit.
	maxChunkChars = 800
	minChunkChars = 40
)

// LoadKnowledgeBase reads every .md and .txt file under dir and splits the
// contents into paragraph-grouped chunks ready for embedding. A missing
// directory yields an empty knowledge base, not an error.
func LoadKnowledgeBase(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read knowledge base dir: %w", err)
	}

	var chunks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		chunks = append(chunks, chunkText(string(raw))...)
	}
	return chunks, nil
}

func chunkText(text string) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if len(chunk) >= minChunkChars {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para) > maxChunkChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}
