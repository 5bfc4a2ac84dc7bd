// Package chunker splits article text into passages along points of
// embedding-similarity discontinuity.
package chunker

import (
	"context"
	"fmt"
	"math"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
)

// Semantic cuts chunk boundaries where consecutive sentences stop talking
// about the same thing: when the cosine similarity of their embeddings drops
// below the threshold.
type Semantic struct {
	embedder  embedding.Embedder
	threshold float64
}

func NewSemantic(embedder embedding.Embedder, threshold float64) *Semantic {
	return &Semantic{embedder: embedder, threshold: threshold}
}

// Split returns the ordered chunks of text. Empty or whitespace-only text
// yields zero chunks and no error; a single-sentence article yields exactly
// one chunk.
func (s *Semantic) Split(ctx context.Context, text string) ([]string, error) {
	sentences, err := splitSentences(text)
	if err != nil {
		return nil, err
	}

	switch len(sentences) {
	case 0:
		return nil, nil
	case 1:
		return []string{sentences[0]}, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("got %d embeddings for %d sentences", len(vectors), len(sentences))
	}

	var chunks []string
	current := []string{sentences[0]}
	for i := 1; i < len(sentences); i++ {
		if cosineSimilarity(vectors[i-1], vectors[i]) < s.threshold {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, sentences[i])
	}
	chunks = append(chunks, strings.Join(current, " "))

	return chunks, nil
}

func splitSentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}

	var sentences []string
	for _, sent := range doc.Sentences() {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
