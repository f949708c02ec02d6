package models

import (
	"database/sql"
	"time"
)

// Notification surfaces activity to a user. Rows are append-only except
// for the is_read flag; there is deliberately no uniqueness constraint
// (see Mention for the dedup guard on mention processing).
type Notification struct {
	ID          int64            `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID int64            `gorm:"not null;index:notifications_recipient_idx;column:recipient_id"`
	SenderID    int64            `gorm:"not null;column:sender_id"`
	Type        NotificationType `gorm:"type:varchar(10);not null;column:notification_type"`
	Title       string           `gorm:"type:varchar(200);not null;column:title"`
	Message     string           `gorm:"type:varchar(300);not null;column:message"`
	PostID      sql.NullInt64    `gorm:"column:post_id"`
	CommentID   sql.NullInt64    `gorm:"column:comment_id"`
	IsRead      bool             `gorm:"not null;default:false;index:notifications_recipient_idx;column:is_read"`
	CreatedAt   time.Time        `gorm:"not null;column:created_at"`

	// Relationships
	Recipient *User    `gorm:"foreignKey:RecipientID;references:ID"`
	Sender    *User    `gorm:"foreignKey:SenderID;references:ID"`
	Post      *Post    `gorm:"foreignKey:PostID;references:ID"`
	Comment   *Comment `gorm:"foreignKey:CommentID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
