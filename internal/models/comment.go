package models

import (
	"time"
)

// Comment represents a comment on a post
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	PostID    int64     `gorm:"not null;index;column:post_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
	Post   *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
