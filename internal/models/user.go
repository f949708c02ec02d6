package models

import (
	"database/sql"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string         `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username"`
	Email        string         `gorm:"type:varchar(254);not null;uniqueIndex:users_email_ux;column:email"`
	PasswordHash string         `gorm:"type:varchar(128);not null;column:password_hash" json:"-"`
	DisplayName  sql.NullString `gorm:"type:varchar(150);column:display_name"`
	IsStaff      bool           `gorm:"not null;default:false;column:is_staff"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at"`
	LastLoginAt  sql.NullTime   `gorm:"column:last_login_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Name returns the name to show next to the user's activity.
// Falls back to the username when no display name is set.
func (u *User) Name() string {
	if u.DisplayName.Valid && u.DisplayName.String != "" {
		return u.DisplayName.String
	}
	return u.Username
}
