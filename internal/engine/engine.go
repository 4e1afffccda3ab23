package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/cache"
	"github.com/pulsefeed/pulse/internal/models"
)

// Engine flips relationship state (likes, follows) and emits the derived
// notifications. Every mutation is one atomic unit against the Store: the
// relation row and its notification commit together or not at all.
type Engine struct {
	store  Store
	cache  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new engine. The cache may be nil; unread-count invalidation
// then becomes a no-op.
func New(store Store, c *cache.Cache, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		cache:  c,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// notify inserts a notification row inside the caller's atomic unit.
// Self-notification is the caller's check; this only guards the invariant.
func (e *Engine) notify(ctx context.Context, tx Tx, n *models.Notification) error {
	if n.CreatorID == n.UserID {
		// Self-actions never notify.
		return nil
	}

	switch n.Kind {
	case models.KindLike, models.KindFollow:
		// Toggle cycles must not re-notify: a like→unlike→like sequence
		// keeps the surviving notification from the first transition.
		existing, err := tx.FindNotification(ctx, n.UserID, n.Kind, n.CreatorID, n.PostID.Int64)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
	case models.KindComment:
		// Every comment is new content; always notify.
	}

	if err := tx.CreateNotification(ctx, n); err != nil {
		return err
	}

	e.logger.Debug("notification emitted",
		zap.String("kind", n.Kind.String()),
		zap.Int64("recipient_id", n.UserID),
		zap.Int64("creator_id", n.CreatorID),
		zap.Int64("post_id", n.PostID.Int64),
		zap.Int64("comment_id", n.CommentID.Int64))

	return nil
}

// invalidateUnread drops the recipient's cached unread count after a
// notification committed. Called outside the atomic unit so a rollback
// never leaves the cache ahead of the store.
func (e *Engine) invalidateUnread(ctx context.Context, recipientID int64) {
	if recipientID == 0 {
		return
	}
	if err := e.cache.Delete(ctx, cache.UnreadKey(recipientID)); err != nil && err != cache.ErrCacheDisabled {
		e.logger.Warn("failed to invalidate unread count",
			zap.Int64("recipient_id", recipientID),
			zap.Error(err))
	}
}
