package embedding

import "context"

// Embedder turns text into vectors. Implementations are constructed once at
// startup and shared; they hold no mutable state after construction.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
