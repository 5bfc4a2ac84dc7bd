package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

func TestMemoryStore_AppendAndLastPairs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.Append(ctx, "sess", model.Turn{Role: model.RoleUser, Content: fmt.Sprintf("q%d", i)})
		s.Append(ctx, "sess", model.Turn{Role: model.RoleAssistant, Content: fmt.Sprintf("a%d", i)})
	}

	turns, err := s.LastPairs(ctx, "sess", 3)
	assert.Equal(t, nil, err)
	assert.Equal(t, 6, len(turns))
	assert.Equal(t, "q2", turns[0].Content)
	assert.Equal(t, "a4", turns[5].Content)
}

func TestMemoryStore_ShortHistory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "sess", model.Turn{Role: model.RoleUser, Content: "hello"})

	turns, err := s.LastPairs(ctx, "sess", 3)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(turns))
	assert.Equal(t, "hello", turns[0].Content)
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	s := NewMemoryStore()

	turns, err := s.LastPairs(context.Background(), "nope", 3)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(turns))
}

func TestMemoryStore_SessionsIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "a", model.Turn{Role: model.RoleUser, Content: "from a"})
	s.Append(ctx, "b", model.Turn{Role: model.RoleUser, Content: "from b"})

	turns, _ := s.LastPairs(ctx, "a", 3)
	assert.Equal(t, 1, len(turns))
	assert.Equal(t, "from a", turns[0].Content)
}
