package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
)

// commentTimeFormat renders comment timestamps the way the blog shows
// them: dd/mm/yyyy hh:mm
const commentTimeFormat = "02/01/2006 15:04"

// CommentHandler serves comment creation
type CommentHandler struct {
	repo     *db.Repository
	comments *engine.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(repo *db.Repository, comments *engine.CommentService) *CommentHandler {
	return &CommentHandler{
		repo:     repo,
		comments: comments,
	}
}

type addCommentRequest struct {
	Content  string `json:"content" binding:"required,max=500"`
	ParentID *int64 `json:"parent_id"`
}

// AddComment saves a comment (or reply) on a published post and runs
// mention processing before responding
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	var req addCommentRequest
	if !BindJSON(c, &req) {
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

	comment, err := h.comments.Create(c.Request.Context(), post, userID, engine.CommentInput{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	author, err := db.NewUserRepository(h.repo).GetByID(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, gin.H{
		"comment": commentPayload(comment, author),
	})
}

func commentPayload(comment *models.Comment, author *models.User) gin.H {
	name := ""
	if author != nil {
		name = author.Name()
	}
	return gin.H{
		"id":         comment.ID,
		"author":     name,
		"content":    comment.Content,
		"created_at": comment.CreatedAt.Format(commentTimeFormat),
		"is_reply":   comment.IsReply(),
	}
}
