package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/delivery"
	pkgredis "storefront/pkg/redis"
)

const defaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps customer sessions as JSON with a sliding TTL.
type SessionStore struct {
	kv  pkgredis.KV
	ttl time.Duration
}

func NewSessionStore(kv pkgredis.KV, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{kv: kv, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session *delivery.Session) error {
	if err := pkgredis.SetJSON(ctx, s.kv, buildSessionKey(session.ID), session, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*delivery.Session, error) {
	var session delivery.Session
	found, err := pkgredis.GetJSON(ctx, s.kv, buildSessionKey(id), &session)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.kv.Del(ctx, buildSessionKey(id))
}

func buildSessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// RateLimiter applies a fixed window per key.
type RateLimiter struct {
	kv     pkgredis.KV
	limit  int64
	window time.Duration
}

func NewRateLimiter(kv pkgredis.KV, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{kv: kv, limit: limit, window: window}
}

func (r *RateLimiter) CheckRateLimit(ctx context.Context, key string) (bool, error) {
	return pkgredis.CheckRateLimit(ctx, r.kv, key, r.limit, r.window)
}
