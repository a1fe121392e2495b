package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TokenStore tracks issued session tokens so sign-out can revoke them
// before expiry.
type TokenStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// RedisTokenStore keeps one key per active session with the token's
// remaining lifetime as TTL.
type RedisTokenStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisTokenStore creates a redis-backed token store.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	if client == nil {
		panic("auth: redis client cannot be nil")
	}
	return &RedisTokenStore{
		redis:  client,
		tracer: otel.Tracer("carepulse.internal.auth.sessions"),
	}
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}

// Save records an issued token for its full lifetime.
func (s *RedisTokenStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	ctx, span := s.tracer.Start(ctx, "sessions.save")
	defer span.End()

	if err := s.redis.Set(ctx, sessionKey(tokenID), userID, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("auth: failed to persist session: %w", err)
	}
	return nil
}

// IsActive reports whether the token has been issued and not revoked.
func (s *RedisTokenStore) IsActive(ctx context.Context, tokenID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "sessions.check")
	defer span.End()

	_, err := s.redis.Get(ctx, sessionKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("auth: failed to read session: %w", err)
	}
	return true, nil
}

// Revoke deletes the session record. Revoking an unknown token is a no-op.
func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string) error {
	ctx, span := s.tracer.Start(ctx, "sessions.revoke")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("auth: failed to revoke session: %w", err)
	}
	return nil
}
