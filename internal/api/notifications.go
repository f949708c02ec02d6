package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/config"
)

// NotificationHandler serves a user's notification inbox
type NotificationHandler struct {
	notifier *engine.Notifier
	content  *config.ContentConfig
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifier *engine.Notifier, content *config.ContentConfig) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		content:  content,
	}
}

// List retrieves one page of the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	page, err := h.notifier.List(c.Request.Context(), userID, pageParam(c), h.content.NotificationsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, notificationPayload(n))
	}
	OK(c, gin.H{
		"notifications": items,
		"page":          page.Page,
		"per_page":      page.PerPage,
		"total":         page.Total,
	})
}

// UnreadCount reports the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	count, err := h.notifier.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"unread_count": count})
}

// MarkRead flips one of the caller's notifications to read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		Fail(c, fmt.Errorf("%w: notification id must be numeric", engine.ErrInvalidInput))
		return
	}

	if err := h.notifier.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{})
}

// MarkAllRead flips every unread notification for the caller
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	if err := h.notifier.MarkAllRead(c.Request.Context(), userID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{})
}

func notificationPayload(n *models.Notification) gin.H {
	item := gin.H{
		"id":         n.ID,
		"type":       string(n.Type),
		"title":      n.Title,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if n.PostID.Valid {
		item["post_id"] = n.PostID.Int64
	}
	if n.CommentID.Valid {
		item["comment_id"] = n.CommentID.Int64
	}
	return item
}
