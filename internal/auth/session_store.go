package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// SessionStore tracks revoked sessions. Tokens are stateless, so revocation is
// recorded as a per-token denylist and a per-user cut-off time.
type SessionStore interface {
	// Revoke denylists one session until it would have expired anyway.
	Revoke(ctx context.Context, session domain.Session) error
	// RevokeUser invalidates every session of the user issued at or before `at`.
	RevokeUser(ctx context.Context, userID string, at time.Time) error
	IsRevoked(ctx context.Context, session domain.Session) (bool, error)
}

const (
	revokedTokenPrefix  = "sessions:revoked:"
	revokedBeforePrefix = "sessions:revoked_before:"
)

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore keeps revocation markers in Redis. ttl is the token
// lifetime; per-user markers expire after it since older tokens are dead by then.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Revoke(ctx context.Context, session domain.Session) error {
	remaining := time.Until(session.ExpiresAt)
	if remaining <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedTokenPrefix+session.ID, "1", remaining).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) RevokeUser(ctx context.Context, userID string, at time.Time) error {
	cutoff := revocationCutoff(at)
	if err := s.client.Set(ctx, revokedBeforePrefix+userID, strconv.FormatInt(cutoff, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

func (s *redisSessionStore) IsRevoked(ctx context.Context, session domain.Session) (bool, error) {
	values, err := s.client.MGet(ctx, revokedTokenPrefix+session.ID, revokedBeforePrefix+session.UserID).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	if len(values) > 0 && values[0] != nil {
		return true, nil
	}
	if len(values) > 1 && values[1] != nil {
		raw, ok := values[1].(string)
		if !ok {
			return false, fmt.Errorf("unexpected revocation marker type %T", values[1])
		}
		cutoff, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return false, fmt.Errorf("parse revocation marker: %w", err)
		}
		return session.IssuedAt.Unix() < cutoff, nil
	}
	return false, nil
}

// revocationCutoff rounds up to whole seconds, the precision of the iat claim.
func revocationCutoff(at time.Time) int64 {
	cutoff := at.Unix()
	if at.Nanosecond() > 0 {
		cutoff++
	}
	return cutoff
}

type memorySessionStore struct {
	mu      sync.Mutex
	tokens  map[string]time.Time
	cutoffs map[string]int64
	now     func() time.Time
}

// NewMemorySessionStore keeps revocation markers in process memory.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		tokens:  make(map[string]time.Time),
		cutoffs: make(map[string]int64),
		now:     time.Now,
	}
}

func (s *memorySessionStore) Revoke(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, id)
		}
	}
	s.tokens[session.ID] = session.ExpiresAt
	return nil
}

func (s *memorySessionStore) RevokeUser(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = revocationCutoff(at)
	return nil
}

func (s *memorySessionStore) IsRevoked(_ context.Context, session domain.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.tokens[session.ID]; ok && s.now().Before(exp) {
		return true, nil
	}
	if cutoff, ok := s.cutoffs[session.UserID]; ok && session.IssuedAt.Unix() < cutoff {
		return true, nil
	}
	return false, nil
}
