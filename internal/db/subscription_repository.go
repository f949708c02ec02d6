package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/models"
)

// SubscriptionRepository provides subscription database operations
type SubscriptionRepository struct {
	*Repository
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(repo *Repository) *SubscriptionRepository {
	return &SubscriptionRepository{Repository: repo}
}

// targetColumn maps a subscription type to the column holding its target
func targetColumn(subType models.SubscriptionType) string {
	if subType == models.SubscribeAuthor {
		return "author_id"
	}
	return "category_id"
}

// Get retrieves a subscription by user, type and target
func (r *SubscriptionRepository) Get(ctx context.Context, userID int64, subType models.SubscriptionType, targetID int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_type = ? AND "+targetColumn(subType)+" = ?", userID, subType, targetID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// GetOrCreate creates a subscription unless the same row exists; the
// unique indexes absorb concurrent duplicates
func (r *SubscriptionRepository) GetOrCreate(ctx context.Context, userID int64, subType models.SubscriptionType, targetID int64) (*models.Subscription, bool, error) {
	sub := &models.Subscription{
		UserID: userID,
		Type:   subType,
	}
	target := sql.NullInt64{Int64: targetID, Valid: true}
	if subType == models.SubscribeAuthor {
		sub.AuthorID = target
	} else {
		sub.CategoryID = target
	}

	if err := sub.Validate(); err != nil {
		return nil, false, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_type = ? AND "+targetColumn(subType)+" = ?", userID, subType, targetID).
		FirstOrCreate(sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			// Lost the race; the row exists now
			existing, err := r.Get(ctx, userID, subType, targetID)
			return existing, false, err
		}
		return nil, false, result.Error
	}
	return sub, result.RowsAffected > 0, nil
}

// Delete removes a subscription by user, type and target
func (r *SubscriptionRepository) Delete(ctx context.Context, userID int64, subType models.SubscriptionType, targetID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_type = ? AND "+targetColumn(subType)+" = ?", userID, subType, targetID).
		Delete(&models.Subscription{}).Error
}

// ListByUser retrieves all of a user's subscriptions, newest first
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
