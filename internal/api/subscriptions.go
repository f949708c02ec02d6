package api

import (
	"github.com/gin-gonic/gin"

	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
)

// SubscriptionHandler serves the author/category subscription registry
type SubscriptionHandler struct {
	subscriptions *engine.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions *engine.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type subscriptionRequest struct {
	Type     string `json:"type" binding:"required,oneof=author category"`
	TargetID int64  `json:"target_id" binding:"required"`
}

// Subscribe records the caller's interest in an author or category.
// Repeats are a no-op.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	var req subscriptionRequest
	if !BindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), userID, models.SubscriptionType(req.Type), req.TargetID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"subscription": subscriptionPayload(sub)})
}

// Unsubscribe removes the caller's subscription; absent rows succeed
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	var req subscriptionRequest
	if !BindJSON(c, &req) {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, models.SubscriptionType(req.Type), req.TargetID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{})
}

// List retrieves all of the caller's subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	subs, err := h.subscriptions.List(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		items = append(items, subscriptionPayload(sub))
	}
	OK(c, gin.H{"subscriptions": items})
}

func subscriptionPayload(sub *models.Subscription) gin.H {
	item := gin.H{
		"id":         sub.ID,
		"type":       string(sub.Type),
		"created_at": sub.CreatedAt,
	}
	if sub.AuthorID.Valid {
		item["target_id"] = sub.AuthorID.Int64
	}
	if sub.CategoryID.Valid {
		item["target_id"] = sub.CategoryID.Int64
	}
	return item
}
