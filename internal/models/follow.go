package models

import (
	"time"
)

// Follow represents a follow edge. The composite primary key keeps the
// edge unique per ordered (follower, followee) pair; follower != followee
// is enforced by the engine before any row is written.
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;autoIncrement:false;column:follower_id"`
	FolloweeID int64     `gorm:"primaryKey;autoIncrement:false;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
