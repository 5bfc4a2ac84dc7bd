// Package conversation holds per-session chat history. Sessions are
// append-only and short-lived; there is no cross-session persistence
// requirement, so the Redis store's TTL doubles as session cleanup.
package conversation

import (
	"context"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

type Store interface {
	Append(ctx context.Context, sessionID string, turn model.Turn) error

	// LastPairs returns up to n of the most recent user/assistant turn
	// pairs (2n turns), oldest first, for prompt construction.
	LastPairs(ctx context.Context, sessionID string, n int) ([]model.Turn, error)
}

func lastTurns(turns []model.Turn, pairs int) []model.Turn {
	window := pairs * 2
	if len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	return turns
}
