package models

import (
	"time"
)

// Like represents a like edge between a user and a post. The composite
// primary key is the uniqueness constraint the toggle engine relies on:
// at most one row per (user, post) pair.
type Like struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	PostID    int64     `gorm:"primaryKey;autoIncrement:false;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}
