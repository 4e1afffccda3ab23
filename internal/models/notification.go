package models

import (
	"database/sql"
	"time"
)

// NotificationKind identifies what triggered a notification. The set is
// closed: every consumption site switches over it exhaustively, so a new
// kind fails to compile until each site handles it.
type NotificationKind int16

const (
	KindLike    NotificationKind = 1
	KindComment NotificationKind = 2
	KindFollow  NotificationKind = 3
)

// String returns the wire name of the kind.
func (k NotificationKind) String() string {
	switch k {
	case KindLike:
		return "LIKE"
	case KindComment:
		return "COMMENT"
	case KindFollow:
		return "FOLLOW"
	}
	return "UNKNOWN"
}

// Valid reports whether k is one of the closed set of kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindLike, KindComment, KindFollow:
		return true
	}
	return false
}

// ParseNotificationKind parses a wire name into a kind.
func ParseNotificationKind(s string) (NotificationKind, bool) {
	switch s {
	case "LIKE":
		return KindLike, true
	case "COMMENT":
		return KindComment, true
	case "FOLLOW":
		return KindFollow, true
	}
	return 0, false
}

// Notification represents a notification row. Rows are immutable after
// creation except for the Read flag, and are never deleted by the engine;
// post/comment references may dangle after the referenced content is
// removed and readers must tolerate that.
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64            `gorm:"not null;index;column:user_id"` // recipient
	Kind      NotificationKind `gorm:"type:smallint;not null;column:kind"`
	CreatorID int64            `gorm:"not null;column:creator_id"`
	Read      bool             `gorm:"not null;default:false;column:read"`
	CreatedAt time.Time        `gorm:"not null;index;column:created_at"`
	PostID    sql.NullInt64    `gorm:"column:post_id"`
	CommentID sql.NullInt64    `gorm:"column:comment_id"`

	// Relationships
	Creator *User    `gorm:"foreignKey:CreatorID;references:ID"`
	Post    *Post    `gorm:"foreignKey:PostID;references:ID"`
	Comment *Comment `gorm:"foreignKey:CommentID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
