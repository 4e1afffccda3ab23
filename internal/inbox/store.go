package inbox

import (
	"context"

	"github.com/pulsefeed/pulse/internal/models"
)

// Store is the inbox's view of durable storage.
type Store interface {
	// ListByRecipient returns the recipient's notifications newest first,
	// with creator, post and comment references preloaded where the rows
	// still exist. beforeID 0 starts from the top; otherwise only rows with
	// an id strictly below beforeID are returned.
	ListByRecipient(ctx context.Context, recipientID, beforeID int64, limit int) ([]*models.Notification, error)

	// MarkRead flags the given notifications as read, restricted to rows the
	// recipient owns, and reports how many rows changed. Already-read and
	// foreign ids are skipped silently.
	MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error)

	// CountUnread counts the recipient's unread notifications.
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
}
