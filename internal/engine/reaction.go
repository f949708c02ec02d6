package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/logging"
	"github.com/resenahub/resenahub/pkg/telemetry"
)

// ReactionEngine toggles a user's single reaction on a post
type ReactionEngine struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewReactionEngine creates a new reaction engine
func NewReactionEngine(repo *db.Repository) *ReactionEngine {
	return &ReactionEngine{
		repo:   repo,
		logger: logging.WithComponent("reaction-engine"),
	}
}

// ReactionResult reports the state after a toggle. UserReaction is nil
// when the toggle removed the user's reaction.
type ReactionResult struct {
	UserReaction *models.ReactionType
	Counts       map[models.ReactionType]int64
	Total        int64
}

// Toggle applies the three-way toggle for (post, user): no existing row
// creates one, the same type removes it, a different type updates it in
// place. Counts are recomputed inside the same transaction.
func (e *ReactionEngine) Toggle(ctx context.Context, postID, userID int64, reactionType models.ReactionType) (*ReactionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reaction.toggle")
	defer span.End()

	if !reactionType.Valid() {
		return nil, fmt.Errorf("%w: unknown reaction type %q", ErrInvalidInput, string(reactionType))
	}

	post, err := db.NewPostRepository(e.repo).GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.Published {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	var result ReactionResult
	err = e.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := db.NewReactionRepository(db.NewRepository(tx))

		existing, err := txRepo.Get(ctx, postID, userID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			row := &models.PostReaction{
				PostID:       postID,
				UserID:       userID,
				ReactionType: reactionType,
			}
			// A concurrent first toggle may have inserted the row
			// after the Get above; the upsert lands that race as an
			// in-place update instead of a failed insert, which would
			// poison the rest of the transaction on Postgres.
			err := tx.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
			}).Create(row).Error
			if err != nil {
				return err
			}
			rt := reactionType
			result.UserReaction = &rt

		case existing.ReactionType == reactionType:
			if err := tx.WithContext(ctx).Delete(existing).Error; err != nil {
				return err
			}
			result.UserReaction = nil

		default:
			if err := e.updateType(ctx, tx, postID, userID, reactionType); err != nil {
				return err
			}
			rt := reactionType
			result.UserReaction = &rt
		}

		result.Counts, result.Total, err = txRepo.CountsByType(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("reaction toggled",
		zap.Int64("post_id", postID),
		zap.Int64("user_id", userID),
		zap.String("reaction_type", string(reactionType)),
		zap.Int64("total", result.Total))

	return &result, nil
}

func (e *ReactionEngine) updateType(ctx context.Context, tx *gorm.DB, postID, userID int64, reactionType models.ReactionType) error {
	return tx.WithContext(ctx).
		Model(&models.PostReaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Update("reaction_type", reactionType).Error
}
