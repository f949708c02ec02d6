package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/cache"
	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/logging"
	"github.com/resenahub/resenahub/pkg/telemetry"
)

// notifyMessageLength caps the comment excerpt carried in a mention
// notification
const notifyMessageLength = 100

// Notifier creates and serves notifications
type Notifier struct {
	repo     *db.Repository
	cache    *cache.Cache
	detector *MentionDetector
	logger   *zap.Logger
}

// NewNotifier creates a new notifier. cache may be nil.
func NewNotifier(repo *db.Repository, c *cache.Cache) *Notifier {
	return &Notifier{
		repo:     repo,
		cache:    c,
		detector: NewMentionDetector(repo),
		logger:   logging.WithComponent("notifier"),
	}
}

// NotificationPage is one page of a user's notifications, newest first
type NotificationPage struct {
	Items   []*models.Notification
	Page    int
	PerPage int
	Total   int64
}

// ProcessMentions scans a saved comment for mentions and fans out one
// Mention row and one Notification per resolved user. The Mention's
// composite key makes a retry of the same comment a no-op for both rows.
func (n *Notifier) ProcessMentions(ctx context.Context, comment *models.Comment) error {
	ctx, span := telemetry.StartSpan(ctx, "notify.process_mentions")
	defer span.End()

	author, err := db.NewUserRepository(n.repo).GetByID(ctx, comment.AuthorID)
	if err != nil {
		return err
	}
	if author == nil {
		return fmt.Errorf("%w: comment author %d", ErrNotFound, comment.AuthorID)
	}

	mentioned, err := n.detector.Detect(ctx, comment.Content, comment.AuthorID)
	if err != nil {
		return err
	}

	for _, user := range mentioned {
		if err := n.notifyMention(ctx, comment, author, user); err != nil {
			return err
		}
	}
	return nil
}

// notifyMention persists the (mention, notification) pair for one user
// inside a single transaction
func (n *Notifier) notifyMention(ctx context.Context, comment *models.Comment, author, recipient *models.User) error {
	err := n.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := db.NewRepository(tx)

		exists, err := db.NewMentionRepository(txRepo).Exists(ctx, comment.ID, recipient.ID)
		if err != nil {
			return err
		}
		if exists {
			// Already processed; keep the retry notification-free too
			return nil
		}

		mention := &models.Mention{
			CommentID:       comment.ID,
			MentionedUserID: recipient.ID,
			CreatedAt:       time.Now().UTC(),
		}
		if err := db.NewMentionRepository(txRepo).Create(ctx, mention); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		notif := &models.Notification{
			RecipientID: recipient.ID,
			SenderID:    author.ID,
			Type:        models.NotifyMention,
			Title:       author.Name() + " mentioned you",
			Message:     excerpt(comment.Content, notifyMessageLength),
			PostID:      sql.NullInt64{Int64: comment.PostID, Valid: true},
			CommentID:   sql.NullInt64{Int64: comment.ID, Valid: true},
			CreatedAt:   time.Now().UTC(),
		}
		return db.NewNotificationRepository(txRepo).Create(ctx, notif)
	})
	if err != nil {
		return err
	}

	n.invalidateUnread(ctx, recipient.ID)

	n.logger.Info("mention notified",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("recipient_id", recipient.ID),
		zap.Int64("sender_id", author.ID))
	return nil
}

// List retrieves one page of a user's notifications, newest first
func (n *Notifier) List(ctx context.Context, userID int64, page, perPage int) (*NotificationPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "notify.list")
	defer span.End()

	if page < 1 {
		page = 1
	}
	items, total, err := db.NewNotificationRepository(n.repo).ListByRecipient(ctx, userID, page, perPage)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

// UnreadCount returns a user's unread notification count, served from
// cache when possible
func (n *Notifier) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, err := n.cache.GetUnreadCount(ctx, userID); err == nil {
		return count, nil
	}

	count, err := db.NewNotificationRepository(n.repo).CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := n.cache.SetUnreadCount(ctx, userID, count); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		n.logger.Debug("failed to cache unread count", zap.Int64("user_id", userID), zap.Error(err))
	}
	return count, nil
}

// MarkRead flips one notification's read flag. The caller must be the
// recipient.
func (n *Notifier) MarkRead(ctx context.Context, notificationID, userID int64) error {
	repo := db.NewNotificationRepository(n.repo)

	notif, err := repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notif == nil {
		return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
	}
	if notif.RecipientID != userID {
		return fmt.Errorf("%w: notification %d belongs to another user", ErrForbidden, notificationID)
	}

	if err := repo.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead flips every unread notification for a user
func (n *Notifier) MarkAllRead(ctx context.Context, userID int64) error {
	if err := db.NewNotificationRepository(n.repo).MarkAllRead(ctx, userID); err != nil {
		return err
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

// invalidateUnread drops the cached unread count, best effort
func (n *Notifier) invalidateUnread(ctx context.Context, userID int64) {
	if err := n.cache.InvalidateUnreadCount(ctx, userID); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		n.logger.Debug("failed to invalidate unread count", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// excerpt keeps the first limit runes of s and marks the cut
func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
