package models

import (
	"time"
)

// Post represents a feed post
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	Content   string    `gorm:"type:text;not null;column:content"`
	Image     string    `gorm:"type:varchar(1024);not null;default:'';column:image"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
