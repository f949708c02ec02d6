package models

import (
	"time"
)

// PostReaction records one user's reaction to a post. At most one row
// exists per (post, user); changing reaction kind updates the row in
// place, repeating the same kind deletes it.
type PostReaction struct {
	ID           int64        `gorm:"primaryKey;autoIncrement;column:id"`
	PostID       int64        `gorm:"not null;uniqueIndex:post_reactions_post_user_ux;column:post_id"`
	UserID       int64        `gorm:"not null;uniqueIndex:post_reactions_post_user_ux;column:user_id"`
	ReactionType ReactionType `gorm:"type:varchar(10);not null;index;column:reaction_type"`
	CreatedAt    time.Time    `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time    `gorm:"not null;column:updated_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for PostReaction
func (PostReaction) TableName() string {
	return "post_reactions"
}
