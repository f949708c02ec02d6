package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/logging"
	"github.com/resenahub/resenahub/pkg/telemetry"
)

// SubscriptionService manages standing interests in authors and
// categories. There is deliberately no fan-out on new posts yet; the
// registry only records interest.
type SubscriptionService struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo *db.Repository) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		logger: logging.WithComponent("subscription-service"),
	}
}

// Subscribe records a user's interest in an author or category.
// Subscribing twice to the same target is a no-op.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, subType models.SubscriptionType, targetID int64) (*models.Subscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "subscription.subscribe")
	defer span.End()

	if !subType.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription type %q", ErrInvalidInput, string(subType))
	}
	if err := s.checkTarget(ctx, subType, targetID); err != nil {
		return nil, err
	}

	sub, created, err := db.NewSubscriptionRepository(s.repo).GetOrCreate(ctx, userID, subType, targetID)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("subscription created",
			zap.Int64("user_id", userID),
			zap.String("type", string(subType)),
			zap.Int64("target_id", targetID))
	}
	return sub, nil
}

// Unsubscribe removes a user's subscription; absent rows are a no-op
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID int64, subType models.SubscriptionType, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "subscription.unsubscribe")
	defer span.End()

	if !subType.Valid() {
		return fmt.Errorf("%w: unknown subscription type %q", ErrInvalidInput, string(subType))
	}
	return db.NewSubscriptionRepository(s.repo).Delete(ctx, userID, subType, targetID)
}

// List retrieves all of a user's subscriptions
func (s *SubscriptionService) List(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	return db.NewSubscriptionRepository(s.repo).ListByUser(ctx, userID)
}

// checkTarget verifies the subscription target exists
func (s *SubscriptionService) checkTarget(ctx context.Context, subType models.SubscriptionType, targetID int64) error {
	switch subType {
	case models.SubscribeAuthor:
		author, err := db.NewUserRepository(s.repo).GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if author == nil {
			return fmt.Errorf("%w: author %d", ErrNotFound, targetID)
		}
	case models.SubscribeCategory:
		category, err := db.NewCategoryRepository(s.repo).GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: category %d", ErrNotFound, targetID)
		}
	}
	return nil
}
