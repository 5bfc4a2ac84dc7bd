package llm

import (
	"context"
	"time"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

// Router classifies a user query into a retrieval route. History must be
// supplied so follow-ups referencing earlier turns ("is that good?") resolve
// to a data-touching route instead of GENERAL.
type Router interface {
	Classify(ctx context.Context, query string, history []model.Turn) (model.Route, error)
}

// Generator produces the final answer from retrieved context.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest carries everything a route-specific prompt needs.
type GenerateRequest struct {
	Route   model.Route
	Query   string
	History []model.Turn
	Chunks  []model.ScoredChunk

	// Trend comparison inputs. Baseline is the latest report (or pre-cutoff
	// context) and Cutoff its timestamp.
	Baseline string
	Cutoff   time.Time
}
