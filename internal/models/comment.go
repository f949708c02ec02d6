package models

import (
	"database/sql"
	"time"
)

// MaxCommentLength caps comment content
const MaxCommentLength = 500

// Comment represents a reader comment on a post. ParentID points at
// another comment for replies; the UI only renders two levels but the
// relation itself permits deeper chains.
type Comment struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64         `gorm:"not null;index;column:post_id"`
	AuthorID  int64         `gorm:"not null;index;column:author_id"`
	Content   string        `gorm:"type:varchar(500);not null;column:content"`
	ParentID  sql.NullInt64 `gorm:"index;column:parent_id"`
	Approved  bool          `gorm:"not null;default:true;column:approved"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`

	// Relationships; votes and mentions die with the comment
	Post     *Post         `gorm:"foreignKey:PostID;references:ID"`
	Author   *User         `gorm:"foreignKey:AuthorID;references:ID"`
	Parent   *Comment      `gorm:"foreignKey:ParentID;references:ID"`
	Replies  []Comment     `gorm:"foreignKey:ParentID;references:ID"`
	Votes    []CommentVote `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE"`
	Mentions []Mention     `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether the comment answers another comment
func (c *Comment) IsReply() bool {
	return c.ParentID.Valid
}

// CommentVote records one user's up/down judgment on a comment.
// The (comment, user) unique index is the sole guard against
// concurrent double-voting.
type CommentVote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	CommentID int64     `gorm:"not null;uniqueIndex:comment_votes_comment_user_ux;column:comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:comment_votes_comment_user_ux;column:user_id"`
	VoteType  VoteType  `gorm:"type:varchar(10);not null;column:vote_type"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Comment *Comment `gorm:"foreignKey:CommentID;references:ID"`
	User    *User    `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for CommentVote
func (CommentVote) TableName() string {
	return "comment_votes"
}
