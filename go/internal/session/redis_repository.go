package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// RedisKey holds the JSON encoded session
const RedisKey = "partyvote:session:" + models.SessionKey

const maxReplaceAttempts = 5

// RedisRepository keeps the session under a single Redis key. Writes use
// WATCH/MULTI so a concurrent change aborts the transaction.
type RedisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a session repository backed by Redis
func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

func (r *RedisRepository) GetSession(ctx context.Context) (*models.GameSession, error) {
	return load(ctx, r.client)
}

func (r *RedisRepository) CreateSession(ctx context.Context, s models.GameSession) (*models.GameSession, bool, error) {
	s.Version = 1
	data, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, RedisKey, data, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}
	if ok {
		return &s, true, nil
	}

	existing, err := load(ctx, r.client)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *RedisRepository) UpdateSession(ctx context.Context, s models.GameSession, expectedVersion int64) (*models.GameSession, error) {
	var out *models.GameSession
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := load(ctx, tx)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return apperr.ErrStaleVersion
		}

		s.Version = expectedVersion + 1
		s.CreatedAt = current.CreatedAt
		out = &s
		return store(ctx, tx, s)
	}, RedisKey)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, apperr.ErrStaleVersion
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceSession overwrites the session, continuing its version. A write
// that races another writer is retried.
func (r *RedisRepository) ReplaceSession(ctx context.Context, s models.GameSession) (*models.GameSession, error) {
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		var out *models.GameSession
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			s.Version = 1
			current, err := load(ctx, tx)
			switch {
			case err == nil:
				s.Version = current.Version + 1
			case !errors.Is(err, apperr.ErrNotFound):
				return err
			}
			out = &s
			return store(ctx, tx, s)
		}, RedisKey)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("session kept changing during replace: %w", apperr.ErrStaleVersion)
}

func (r *RedisRepository) DeleteSession(ctx context.Context) (int64, error) {
	return r.client.Del(ctx, RedisKey).Result()
}

func (r *RedisRepository) CountSessions(ctx context.Context) (int64, error) {
	return r.client.Exists(ctx, RedisKey).Result()
}

func load(ctx context.Context, c redis.Cmdable) (*models.GameSession, error) {
	data, err := c.Get(ctx, RedisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("session", models.SessionKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s models.GameSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func store(ctx context.Context, tx *redis.Tx, s models.GameSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, RedisKey, data, 0)
		return nil
	})
	return err
}
