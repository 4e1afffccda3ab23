package inbox

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/cache"
	"github.com/pulsefeed/pulse/internal/engine"
)

// DefaultListLimit is the page size used when the caller does not ask for one.
const DefaultListLimit = 50

// Reader serves a user's notification inbox: listing, unread counting and
// read marking. Unread counts are cached per recipient and invalidated on
// every mark.
type Reader struct {
	store     Store
	cache     *cache.Cache
	logger    *zap.Logger
	listLimit int
	unreadTTL time.Duration
}

// NewReader creates a new inbox reader. The cache may be nil; unread counts
// then hit the store on every call. listLimit caps page sizes, 0 means
// DefaultListLimit.
func NewReader(store Store, c *cache.Cache, logger *zap.Logger, listLimit int, unreadTTL time.Duration) *Reader {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Reader{
		store:     store,
		cache:     c,
		logger:    logger,
		listLimit: listLimit,
		unreadTTL: unreadTTL,
	}
}

// List returns the recipient's notifications newest first, rendered for
// display. Reads are permissive: an unresolved actor gets an empty inbox,
// not an error. beforeID pages backwards through the inbox; limit 0 or
// anything above the reader's cap falls back to the cap.
func (r *Reader) List(ctx context.Context, recipientID, beforeID int64, limit int) ([]*View, error) {
	const op = "inbox.list"
	if recipientID <= 0 {
		return []*View{}, nil
	}
	if limit <= 0 || limit > r.listLimit {
		limit = r.listLimit
	}

	notifications, err := r.store.ListByRecipient(ctx, recipientID, beforeID, limit)
	if err != nil {
		return nil, engine.E(engine.KindStorageFailure, op, "listing notifications").WithCause(err)
	}

	views := make([]*View, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, render(n))
	}
	return views, nil
}

// MarkRead flags the given notifications as read for the recipient. Ids the
// recipient does not own, unknown ids and already-read rows are ignored, so
// retries are harmless. Returns the number of rows that actually changed.
func (r *Reader) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	const op = "inbox.mark_read"
	if recipientID <= 0 {
		return 0, engine.E(engine.KindUnauthenticated, op, "no resolved actor")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	affected, err := r.store.MarkRead(ctx, recipientID, ids)
	if err != nil {
		return 0, engine.E(engine.KindStorageFailure, op, "marking notifications read").WithCause(err)
	}

	if affected > 0 {
		r.invalidateUnread(ctx, recipientID)
	}

	r.logger.Debug("marked notifications read",
		zap.Int64("recipient_id", recipientID),
		zap.Int("requested", len(ids)),
		zap.Int64("affected", affected))

	return affected, nil
}

// UnreadCount returns the recipient's unread notification count, served from
// the cache when warm.
func (r *Reader) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	const op = "inbox.unread_count"
	if recipientID <= 0 {
		return 0, engine.E(engine.KindUnauthenticated, op, "no resolved actor")
	}

	key := cache.UnreadKey(recipientID)
	if count, ok := r.cache.GetInt64(ctx, key); ok {
		return count, nil
	}

	count, err := r.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, engine.E(engine.KindStorageFailure, op, "counting unread notifications").WithCause(err)
	}

	if err := r.cache.Set(ctx, key, strconv.FormatInt(count, 10), r.unreadTTL); err != nil && err != cache.ErrCacheDisabled {
		r.logger.Warn("failed to cache unread count",
			zap.Int64("recipient_id", recipientID),
			zap.Error(err))
	}
	return count, nil
}

func (r *Reader) invalidateUnread(ctx context.Context, recipientID int64) {
	if err := r.cache.Delete(ctx, cache.UnreadKey(recipientID)); err != nil && err != cache.ErrCacheDisabled {
		r.logger.Warn("failed to invalidate unread count",
			zap.Int64("recipient_id", recipientID),
			zap.Error(err))
	}
}
