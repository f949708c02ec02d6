package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
)

// ReactionHandler serves reaction and comment-vote toggles
type ReactionHandler struct {
	repo      *db.Repository
	reactions *engine.ReactionEngine
	votes     *engine.VoteEngine
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(repo *db.Repository, reactions *engine.ReactionEngine, votes *engine.VoteEngine) *ReactionHandler {
	return &ReactionHandler{
		repo:      repo,
		reactions: reactions,
		votes:     votes,
	}
}

type toggleReactionRequest struct {
	ReactionType string `json:"reaction_type" binding:"required"`
}

type toggleVoteRequest struct {
	VoteType string `json:"vote_type" binding:"required"`
}

// ToggleReaction flips the caller's reaction on a post
func (h *ReactionHandler) ToggleReaction(c *gin.Context) {
	var req toggleReactionRequest
	if !BindJSON(c, &req) {
		return
	}
	h.toggle(c, models.ReactionType(req.ReactionType), false)
}

// ToggleLike is the compatibility route for the plain like button. It
// toggles the "like" reaction and reports only the like bucket.
func (h *ReactionHandler) ToggleLike(c *gin.Context) {
	h.toggle(c, models.ReactionLike, true)
}

func (h *ReactionHandler) toggle(c *gin.Context, reactionType models.ReactionType, likeOnly bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	post, err := db.NewPostRepository(h.repo).GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	if post == nil {
		Fail(c, fmt.Errorf("%w: post %q", engine.ErrNotFound, c.Param("slug")))
		return
	}

	result, err := h.reactions.Toggle(c.Request.Context(), post.ID, userID, reactionType)
	if err != nil {
		Fail(c, err)
		return
	}

	liked := result.UserReaction != nil && *result.UserReaction == models.ReactionLike
	likesCount := result.Counts[models.ReactionLike]

	if likeOnly {
		OK(c, gin.H{
			"liked":       liked,
			"likes_count": likesCount,
		})
		return
	}

	var userReaction interface{}
	if result.UserReaction != nil {
		userReaction = string(*result.UserReaction)
	}
	OK(c, gin.H{
		"user_reaction":     userReaction,
		"reactions_by_type": result.Counts,
		"total_reactions":   result.Total,
		"liked":             liked,
		"likes_count":       likesCount,
	})
}

// ToggleCommentVote flips the caller's up/down vote on a comment
func (h *ReactionHandler) ToggleCommentVote(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		Fail(c, fmt.Errorf("%w: comment id must be numeric", engine.ErrInvalidInput))
		return
	}

	var req toggleVoteRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.votes.Toggle(c.Request.Context(), commentID, userID, models.VoteType(req.VoteType))
	if err != nil {
		Fail(c, err)
		return
	}

	var userVote interface{}
	if result.UserVote != nil {
		userVote = string(*result.UserVote)
	}
	OK(c, gin.H{
		"user_vote":  userVote,
		"vote_score": result.Score,
		"upvotes":    result.Upvotes,
		"downvotes":  result.Downvotes,
	})
}
