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

// VoteEngine toggles a user's single up/down vote on a comment
type VoteEngine struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewVoteEngine creates a new vote engine
func NewVoteEngine(repo *db.Repository) *VoteEngine {
	return &VoteEngine{
		repo:   repo,
		logger: logging.WithComponent("vote-engine"),
	}
}

// VoteResult reports the state after a toggle. UserVote is nil when the
// toggle removed the user's vote. Score is always Upvotes - Downvotes.
type VoteResult struct {
	UserVote  *models.VoteType
	Score     int64
	Upvotes   int64
	Downvotes int64
}

// Toggle applies the three-way toggle for (comment, user), mirroring
// reaction toggling but restricted to up/down. The comment must exist
// and be approved.
func (e *VoteEngine) Toggle(ctx context.Context, commentID, userID int64, voteType models.VoteType) (*VoteResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "vote.toggle")
	defer span.End()

	if !voteType.Valid() {
		return nil, fmt.Errorf("%w: unknown vote type %q", ErrInvalidInput, string(voteType))
	}

	comment, err := db.NewCommentRepository(e.repo).GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || !comment.Approved {
		return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}

	var result VoteResult
	err = e.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := db.NewCommentRepository(db.NewRepository(tx))

		existing, err := txRepo.GetVote(ctx, commentID, userID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			row := &models.CommentVote{
				CommentID: commentID,
				UserID:    userID,
				VoteType:  voteType,
			}
			// The row may appear concurrently between the Get above
			// and this insert; the upsert applies that race as an
			// update so the unique index never aborts the transaction.
			err := tx.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"vote_type"}),
			}).Create(row).Error
			if err != nil {
				return err
			}
			vt := voteType
			result.UserVote = &vt

		case existing.VoteType == voteType:
			if err := tx.WithContext(ctx).Delete(existing).Error; err != nil {
				return err
			}
			result.UserVote = nil

		default:
			if err := e.updateType(ctx, tx, commentID, userID, voteType); err != nil {
				return err
			}
			vt := voteType
			result.UserVote = &vt
		}

		result.Upvotes, result.Downvotes, err = txRepo.CountVotes(ctx, commentID)
		result.Score = result.Upvotes - result.Downvotes
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("comment vote toggled",
		zap.Int64("comment_id", commentID),
		zap.Int64("user_id", userID),
		zap.String("vote_type", string(voteType)),
		zap.Int64("score", result.Score))

	return &result, nil
}

func (e *VoteEngine) updateType(ctx context.Context, tx *gorm.DB, commentID, userID int64, voteType models.VoteType) error {
	return tx.WithContext(ctx).
		Model(&models.CommentVote{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Update("vote_type", voteType).Error
}
