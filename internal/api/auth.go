package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resenahub/resenahub/internal/auth"
	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/logging"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	repo   *db.Repository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(repo *db.Repository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		repo:   repo,
		tokens: tokens,
		logger: logging.WithComponent("auth-handler"),
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=150"`
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"max=150"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account and issues its first token
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSON(c, &req) {
		return
	}

	users := db.NewUserRepository(h.repo)
	username := strings.TrimSpace(req.Username)

	if existing, err := users.GetByUsername(c.Request.Context(), username); err != nil {
		Fail(c, err)
		return
	} else if existing != nil {
		FailValidation(c, map[string][]string{"username": {"username is already taken"}})
		return
	}
	if existing, err := users.GetByEmail(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	} else if existing != nil {
		FailValidation(c, map[string][]string{"email": {"email is already registered"}})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	user := &models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if req.DisplayName != "" {
		user.DisplayName.String = req.DisplayName
		user.DisplayName.Valid = true
	}

	if err := users.Create(c.Request.Context(), user); err != nil {
		Fail(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		Fail(c, err)
		return
	}

	h.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	OK(c, gin.H{
		"token": token,
		"user":  userPayload(user),
	})
}

// Login verifies credentials and issues a token. Unknown usernames and
// bad passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	users := db.NewUserRepository(h.repo)
	user, err := users.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		Fail(c, NewError(http.StatusUnauthorized, "invalid username or password"))
		return
	}

	user.LastLoginAt.Time = time.Now().UTC()
	user.LastLoginAt.Valid = true
	if err := users.Update(c.Request.Context(), user); err != nil {
		h.logger.Warn("failed to record login time",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, gin.H{
		"token": token,
		"user":  userPayload(user),
	})
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.Name(),
		"is_staff":     user.IsStaff,
	}
}
