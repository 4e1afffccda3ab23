package models

import (
	"time"
)

// Session maps an opaque bearer token to a user. Rows are written by the
// external identity provider's sync job; the actor resolver only reads them.
type Session struct {
	Token     string    `gorm:"primaryKey;type:varchar(64);column:token"`
	UserID    int64     `gorm:"not null;index;column:user_id"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}
