package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/logging"
	"github.com/resenahub/resenahub/pkg/telemetry"
)

// CommentService creates comments and runs the mention fan-out
type CommentService struct {
	repo     *db.Repository
	notifier *Notifier
	logger   *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(repo *db.Repository, notifier *Notifier) *CommentService {
	return &CommentService{
		repo:     repo,
		notifier: notifier,
		logger:   logging.WithComponent("comment-service"),
	}
}

// CommentInput is the user-supplied part of a new comment
type CommentInput struct {
	Content  string
	ParentID *int64
}

// Create validates and saves a comment on a post, then processes
// mentions synchronously. The post must already be resolved and
// published. A mention fan-out failure is logged, not surfaced: the
// comment itself is durable by then.
func (s *CommentService) Create(ctx context.Context, post *models.Post, authorID int64, in CommentInput) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "comment.create")
	defer span.End()

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if len([]rune(content)) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment content exceeds %d characters", ErrInvalidInput, models.MaxCommentLength)
	}

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  authorID,
		Content:   content,
		Approved:  true,
		CreatedAt: time.Now().UTC(),
	}

	if in.ParentID != nil {
		parent, err := db.NewCommentRepository(s.repo).GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent comment %d", ErrNotFound, *in.ParentID)
		}
		if parent.PostID != post.ID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrInvalidInput)
		}
		comment.ParentID.Int64 = parent.ID
		comment.ParentID.Valid = true
	}

	if err := db.NewCommentRepository(s.repo).Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.notifier.ProcessMentions(ctx, comment); err != nil {
		s.logger.Error("mention processing failed",
			zap.Int64("comment_id", comment.ID),
			zap.Error(err))
	}

	return comment, nil
}
