package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/ports"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "oauth_session:"

// RedisSessionStore implements SessionStore on Redis. The TTL on each key
// gives expiry for free, and GETDEL makes consumption atomic, so a state
// nonce can never verify twice even across concurrent callbacks.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed OAuth session store
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{client: client}
}

// Save stores a session keyed by its state nonce until the session expires.
func (s *RedisSessionStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.State, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Consume atomically fetches and removes the session for a state nonce.
// Returns nil when the state is unknown, already consumed, or expired.
func (s *RedisSessionStore) Consume(ctx context.Context, state string) (*domain.Session, error) {
	payload, err := s.client.GetDel(ctx, sessionKeyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}
