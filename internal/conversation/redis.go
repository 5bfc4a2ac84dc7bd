package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

const sessionTTL = 24 * time.Hour

// RedisStore keeps each session as a Redis list of JSON turns, so history
// survives API restarts and is shared across replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID string) string {
	return "econagent:session:" + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn model.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := sessionKey(sessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return s.client.Expire(ctx, key, sessionTTL).Err()
}

func (s *RedisStore) LastPairs(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	window := int64(n * 2)

	raw, err := s.client.LRange(ctx, sessionKey(sessionID), -window, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	turns := make([]model.Turn, 0, len(raw))
	for _, item := range raw {
		var turn model.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}

	return turns, nil
}
