package engine

import (
	"context"

	"github.com/pulsefeed/pulse/internal/models"
)

// Tx is the set of storage operations available inside one atomic unit.
// Lookups return (nil, nil) when the row is absent. Creates must return
// ErrDuplicateKey (possibly wrapped) when they lose a race against the
// store's uniqueness constraint.
type Tx interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)

	GetLike(ctx context.Context, userID, postID int64) (*models.Like, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, userID, postID int64) error

	GetFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error)
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followeeID int64) error

	CreatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error

	CreateNotification(ctx context.Context, notification *models.Notification) error
	// FindNotification looks up a prior notification with the same
	// recipient, kind, creator and post reference; postID 0 matches a null
	// post reference. Used to keep toggle cycles from re-notifying.
	FindNotification(ctx context.Context, recipientID int64, kind models.NotificationKind, creatorID, postID int64) (*models.Notification, error)
}

// Store is the engine's view of durable storage. Atomic runs fn inside one
// all-or-nothing unit: every write fn issues through its Tx persists together
// or not at all. The non-transactional Tx methods on Store itself serve
// standalone reads, e.g. re-observing state after a lost insert race.
type Store interface {
	Tx
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}
