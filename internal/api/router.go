package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/resenahub/resenahub/internal/auth"
	"github.com/resenahub/resenahub/internal/cache"
	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/pkg/config"
	"github.com/resenahub/resenahub/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	cfg    *config.Config
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	return &Router{
		db:     database,
		cache:  redisCache,
		cfg:    cfg,
		tokens: auth.NewTokenManager(&cfg.Auth),
		logger: logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(g *gin.Engine) {
	repo := db.NewRepository(r.db.DB)

	notifier := engine.NewNotifier(repo, r.cache)
	reactions := engine.NewReactionEngine(repo)
	votes := engine.NewVoteEngine(repo)
	comments := engine.NewCommentService(repo, notifier)
	subscriptions := engine.NewSubscriptionService(repo)

	authHandler := NewAuthHandler(repo, r.tokens)
	postHandler := NewPostHandler(repo, &r.cfg.Content)
	commentHandler := NewCommentHandler(repo, comments)
	reactionHandler := NewReactionHandler(repo, reactions, votes)
	notificationHandler := NewNotificationHandler(notifier, &r.cfg.Content)
	subscriptionHandler := NewSubscriptionHandler(subscriptions)

	requireAuth := Authenticate(r.tokens, true)
	optionalAuth := Authenticate(r.tokens, false)
	toggleLimiter := NewIPRateLimiter(
		rate.Limit(r.cfg.Content.ToggleRatePerSecond),
		r.cfg.Content.ToggleRateBurst)
	throttled := RateLimit(toggleLimiter)

	g.Use(RequestID())

	// Health check endpoints
	g.GET("/health", r.healthHandler)
	g.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Accounts
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)

	// Catalogue
	g.GET("/posts", postHandler.List)
	g.GET("/posts/:slug", optionalAuth, postHandler.Detail)
	g.POST("/posts", requireAuth, postHandler.Create)
	g.PUT("/posts/:slug", requireAuth, postHandler.Update)
	g.DELETE("/posts/:slug", requireAuth, postHandler.Delete)
	g.GET("/my-posts", requireAuth, postHandler.MyPosts)
	g.GET("/categories", postHandler.Categories)
	g.GET("/category/:slug/posts", postHandler.ByCategory)
	g.GET("/category/:slug/:subslug/posts", postHandler.BySubcategory)
	g.GET("/search", postHandler.Search)

	// Engagement; toggles are rate limited per client
	g.POST("/toggle-reaction/:slug", requireAuth, throttled, reactionHandler.ToggleReaction)
	g.POST("/toggle-like/:slug", requireAuth, throttled, reactionHandler.ToggleLike)
	g.POST("/toggle-comment-vote/:id", requireAuth, throttled, reactionHandler.ToggleCommentVote)
	g.POST("/add-comment/:slug", requireAuth, commentHandler.AddComment)

	// Inbox
	g.GET("/notifications", requireAuth, notificationHandler.List)
	g.GET("/notifications/unread-count", requireAuth, notificationHandler.UnreadCount)
	g.POST("/notifications/:id/read", requireAuth, notificationHandler.MarkRead)
	g.POST("/notifications/read-all", requireAuth, notificationHandler.MarkAllRead)

	// Subscriptions
	g.GET("/subscriptions", requireAuth, subscriptionHandler.List)
	g.POST("/subscriptions", requireAuth, subscriptionHandler.Subscribe)
	g.DELETE("/subscriptions", requireAuth, subscriptionHandler.Unsubscribe)

	r.logger.Info("routes registered",
		zap.Int("count", len(g.Routes())),
		zap.Float64("toggle_rate_per_second", r.cfg.Content.ToggleRatePerSecond))
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	code := http.StatusOK

	dbStatus := "OK"
	if err := r.db.Health(c.Request.Context()); err != nil {
		dbStatus = err.Error()
		status = "DEGRADED"
		code = http.StatusServiceUnavailable
	}

	cacheStatus := "OK"
	if r.cache == nil {
		cacheStatus = "disabled"
	} else if err := r.cache.Health(c.Request.Context()); err != nil {
		cacheStatus = err.Error()
		status = "DEGRADED"
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  "resenahub-api",
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
