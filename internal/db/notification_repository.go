package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/models"
)

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notif models.Notification
	if err := r.db.WithContext(ctx).First(&notif, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// ListByRecipient retrieves a user's notifications newest first, paginated
func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID int64, page, perPage int) ([]*models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifs []*models.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&notifs).Error; err != nil {
		return nil, 0, err
	}
	return notifs, total, nil
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flips a notification's is_read flag
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllRead flips every unread notification for a user
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// MentionRepository provides mention database operations
type MentionRepository struct {
	*Repository
}

// NewMentionRepository creates a new mention repository
func NewMentionRepository(repo *Repository) *MentionRepository {
	return &MentionRepository{Repository: repo}
}

// Exists reports whether a comment already mentions a user
func (r *MentionRepository) Exists(ctx context.Context, commentID, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Mention{}).
		Where("comment_id = ? AND mentioned_user_id = ?", commentID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create creates a new mention record
func (r *MentionRepository) Create(ctx context.Context, mention *models.Mention) error {
	return r.db.WithContext(ctx).Create(mention).Error
}

// ListByComment retrieves a comment's mention records
func (r *MentionRepository) ListByComment(ctx context.Context, commentID int64) ([]*models.Mention, error) {
	var mentions []*models.Mention
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Find(&mentions).Error; err != nil {
		return nil, err
	}
	return mentions, nil
}
