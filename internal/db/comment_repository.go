package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListApprovedRoots retrieves a post's approved top-level comments in
// posting order, each with its approved replies preloaded one level deep
func (r *CommentRepository) ListApprovedRoots(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND approved = ? AND parent_id IS NULL", postID, true).
		Order("created_at").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	for _, root := range comments {
		var replies []models.Comment
		if err := r.db.WithContext(ctx).
			Preload("Author").
			Where("parent_id = ? AND approved = ?", root.ID, true).
			Order("created_at").
			Find(&replies).Error; err != nil {
			return nil, err
		}
		root.Replies = replies
	}

	return comments, nil
}

// GetVote retrieves a user's vote on a comment
func (r *CommentRepository) GetVote(ctx context.Context, commentID, userID int64) (*models.CommentVote, error) {
	var vote models.CommentVote
	if err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// CountVotes tallies a comment's upvotes and downvotes
func (r *CommentRepository) CountVotes(ctx context.Context, commentID int64) (upvotes, downvotes int64, err error) {
	type voteCount struct {
		VoteType models.VoteType `gorm:"column:vote_type"`
		Total    int64           `gorm:"column:total"`
	}

	var rows []voteCount
	if err := r.db.WithContext(ctx).
		Model(&models.CommentVote{}).
		Select("vote_type, count(*) AS total").
		Where("comment_id = ?", commentID).
		Group("vote_type").
		Scan(&rows).Error; err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		switch row.VoteType {
		case models.VoteUp:
			upvotes = row.Total
		case models.VoteDown:
			downvotes = row.Total
		}
	}
	return upvotes, downvotes, nil
}
