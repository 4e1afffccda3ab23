// Package auth resolves bearer tokens to actor ids. Every mutating
// operation and every inbox read needs a resolved actor; resolution failures
// map to actor id 0, which downstream layers reject as unauthenticated.
package auth

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/cache"
	"github.com/pulsefeed/pulse/internal/models"
)

// SessionStore is the resolver's view of durable session storage.
type SessionStore interface {
	GetByToken(ctx context.Context, token string) (*models.Session, error)
}

// Resolver maps a bearer token to an actor id. An empty token or an unknown
// or expired session resolves to 0 without error; storage failures are the
// only error case.
type Resolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// SessionResolver resolves tokens against the sessions table, with a
// short-lived cache keyed on the hashed token so hot sessions skip the
// database.
type SessionResolver struct {
	store  SessionStore
	cache  *cache.Cache
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionResolver creates a new session resolver. The cache may be nil.
func NewSessionResolver(store SessionStore, c *cache.Cache, logger *zap.Logger, ttl time.Duration) *SessionResolver {
	return &SessionResolver{
		store:  store,
		cache:  c,
		logger: logger,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Resolve returns the actor id for a bearer token, or 0 when the token does
// not identify a live session.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}

	key := cache.SessionKey(token)
	if userID, ok := r.cache.GetInt64(ctx, key); ok && userID > 0 {
		return userID, nil
	}

	session, err := r.store.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, nil
	}
	if !session.ExpiresAt.After(r.now()) {
		return 0, nil
	}

	if err := r.cache.Set(ctx, key, strconv.FormatInt(session.UserID, 10), r.cacheTTL(session)); err != nil && err != cache.ErrCacheDisabled {
		r.logger.Warn("failed to cache session", zap.Error(err))
	}

	return session.UserID, nil
}

// cacheTTL clamps the configured TTL so a cache entry never outlives its
// session.
func (r *SessionResolver) cacheTTL(session *models.Session) time.Duration {
	remaining := session.ExpiresAt.Sub(r.now())
	if remaining < r.ttl {
		return remaining
	}
	return r.ttl
}
