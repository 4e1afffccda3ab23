package models

import (
	"database/sql"
	"time"
)

// User represents a member of the network. Rows are provisioned by the
// external identity sync; the engine only ever reads them.
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string         `gorm:"type:varchar(50);not null;column:name"`
	Username  string         `gorm:"type:varchar(30);not null;uniqueIndex:users_username_ux;column:username"`
	Email     string         `gorm:"type:varchar(254);not null;uniqueIndex:users_email_ux;column:email"`
	Image     string         `gorm:"type:varchar(1024);not null;default:'';column:image"`
	Bio       sql.NullString `gorm:"type:varchar(160);column:bio"`
	Location  sql.NullString `gorm:"type:varchar(30);column:location"`
	Website   sql.NullString `gorm:"type:varchar(100);column:website"`
	CreatedAt time.Time      `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
