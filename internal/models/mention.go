package models

import (
	"time"
)

// Mention records that a comment's text referenced a user. The composite
// primary key doubles as the idempotency guard for mention processing:
// re-running a comment can never produce a second row for the same pair.
type Mention struct {
	CommentID       int64     `gorm:"primaryKey;column:comment_id"`
	MentionedUserID int64     `gorm:"primaryKey;column:mentioned_user_id"`
	CreatedAt       time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Comment       *Comment `gorm:"foreignKey:CommentID;references:ID"`
	MentionedUser *User    `gorm:"foreignKey:MentionedUserID;references:ID"`
}

// TableName specifies the table name for Mention
func (Mention) TableName() string {
	return "mentions"
}
