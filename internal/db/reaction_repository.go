package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/models"
)

// ReactionRepository provides post-reaction database operations
type ReactionRepository struct {
	*Repository
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(repo *Repository) *ReactionRepository {
	return &ReactionRepository{Repository: repo}
}

// Get retrieves a user's reaction on a post
func (r *ReactionRepository) Get(ctx context.Context, postID, userID int64) (*models.PostReaction, error) {
	var reaction models.PostReaction
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// CountsByType tallies a post's reactions grouped by reaction type.
// Types with no reactions are present in the map with a zero count.
func (r *ReactionRepository) CountsByType(ctx context.Context, postID int64) (map[models.ReactionType]int64, int64, error) {
	type reactionCount struct {
		ReactionType models.ReactionType `gorm:"column:reaction_type"`
		Total        int64               `gorm:"column:total"`
	}

	var rows []reactionCount
	if err := r.db.WithContext(ctx).
		Model(&models.PostReaction{}).
		Select("reaction_type, count(*) AS total").
		Where("post_id = ?", postID).
		Group("reaction_type").
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	counts := make(map[models.ReactionType]int64, len(models.ReactionTypes))
	for _, t := range models.ReactionTypes {
		counts[t] = 0
	}

	var total int64
	for _, row := range rows {
		counts[row.ReactionType] = row.Total
		total += row.Total
	}
	return counts, total, nil
}
