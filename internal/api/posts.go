package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/config"
	"github.com/resenahub/resenahub/pkg/logging"
)

const relatedPostLimit = 3

// PostHandler serves the post catalogue: listings, detail, authoring,
// categories and search
type PostHandler struct {
	repo    *db.Repository
	content *config.ContentConfig
	logger  *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(repo *db.Repository, content *config.ContentConfig) *PostHandler {
	return &PostHandler{
		repo:    repo,
		content: content,
		logger:  logging.WithComponent("post-handler"),
	}
}

type postRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Slug          string `json:"slug" binding:"required,max=200"`
	CategoryID    int64  `json:"category_id" binding:"required"`
	SubcategoryID *int64 `json:"subcategory_id"`
	Content       string `json:"content" binding:"required"`
	Excerpt       string `json:"excerpt" binding:"max=300"`
	MovieTitle    string `json:"movie_title" binding:"max=200"`
	Director      string `json:"director" binding:"max=200"`
	ReleaseYear   *int64 `json:"release_year"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Published     bool   `json:"published"`
}

// List retrieves published posts, newest first, paginated
func (h *PostHandler) List(c *gin.Context) {
	posts, total, err := db.NewPostRepository(h.repo).ListPublished(
		c.Request.Context(), pageParam(c), h.content.PostsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, postListPayload(posts, total, pageParam(c), h.content.PostsPerPage))
}

// Detail retrieves one published post with its comment tree, reaction
// state and related posts. Anonymous readers get no user_reaction.
func (h *PostHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	posts := db.NewPostRepository(h.repo)

	post, err := posts.GetBySlug(ctx, c.Param("slug"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	if post == nil {
		Fail(c, fmt.Errorf("%w: post %q", engine.ErrNotFound, c.Param("slug")))
		return
	}

	comments, err := db.NewCommentRepository(h.repo).ListApprovedRoots(ctx, post.ID)
	if err != nil {
		Fail(c, err)
		return
	}

	reactions := db.NewReactionRepository(h.repo)
	counts, total, err := reactions.CountsByType(ctx, post.ID)
	if err != nil {
		Fail(c, err)
		return
	}

	var userReaction interface{}
	liked := false
	if userID, ok := CurrentUserID(c); ok {
		existing, err := reactions.Get(ctx, post.ID, userID)
		if err != nil {
			Fail(c, err)
			return
		}
		if existing != nil {
			userReaction = string(existing.ReactionType)
			liked = existing.ReactionType == models.ReactionLike
		}
	}

	related, err := posts.ListRelated(ctx, post, relatedPostLimit)
	if err != nil {
		Fail(c, err)
		return
	}

	commentItems := make([]gin.H, 0, len(comments))
	for _, root := range comments {
		commentItems = append(commentItems, commentTreePayload(root))
	}

	OK(c, gin.H{
		"post":              postDetailPayload(post),
		"comments":          commentItems,
		"reactions_by_type": counts,
		"total_reactions":   total,
		"user_reaction":     userReaction,
		"liked":             liked,
		"likes_count":       counts[models.ReactionLike],
		"related_posts":     postSummaries(related),
	})
}

// Create publishes a new post owned by the caller. Slugs are supplied
// by the client and only checked for uniqueness.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}

	var req postRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	posts := db.NewPostRepository(h.repo)

	slug := strings.TrimSpace(req.Slug)
	taken, err := posts.SlugExists(ctx, slug)
	if err != nil {
		Fail(c, err)
		return
	}
	if taken {
		FailValidation(c, map[string][]string{"slug": {"slug is already in use"}})
		return
	}

	if err := h.checkCategory(c, req.CategoryID, req.SubcategoryID); err != nil {
		Fail(c, err)
		return
	}

	post := &models.Post{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		AuthorID:   userID,
		CategoryID: req.CategoryID,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		MovieTitle: req.MovieTitle,
		Director:   req.Director,
		Rating:     req.Rating,
		Published:  req.Published,
	}
	if req.SubcategoryID != nil {
		post.SubcategoryID.Int64 = *req.SubcategoryID
		post.SubcategoryID.Valid = true
	}
	if req.ReleaseYear != nil {
		post.ReleaseYear.Int64 = *req.ReleaseYear
		post.ReleaseYear.Valid = true
	}

	if err := posts.Create(ctx, post); err != nil {
		Fail(c, err)
		return
	}

	h.logger.Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", userID),
		zap.String("slug", post.Slug))

	OK(c, gin.H{"post": postDetailPayload(post)})
}

// Update rewrites an existing post. Only the author (or staff) may
// edit it; the slug is immutable.
func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	var req postRequest
	if !BindJSON(c, &req) {
		return
	}

	if err := h.checkCategory(c, req.CategoryID, req.SubcategoryID); err != nil {
		Fail(c, err)
		return
	}

	post.Title = strings.TrimSpace(req.Title)
	post.CategoryID = req.CategoryID
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.MovieTitle = req.MovieTitle
	post.Director = req.Director
	post.Rating = req.Rating
	post.Published = req.Published
	post.SubcategoryID.Valid = req.SubcategoryID != nil
	if req.SubcategoryID != nil {
		post.SubcategoryID.Int64 = *req.SubcategoryID
	}
	post.ReleaseYear.Valid = req.ReleaseYear != nil
	if req.ReleaseYear != nil {
		post.ReleaseYear.Int64 = *req.ReleaseYear
	}

	if err := db.NewPostRepository(h.repo).Update(c.Request.Context(), post); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"post": postDetailPayload(post)})
}

// Delete removes a post along with its comments and reactions
func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}
	if err := db.NewPostRepository(h.repo).Delete(c.Request.Context(), post); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"deleted": post.Slug})
}

// MyPosts retrieves all of the caller's posts, drafts included
func (h *PostHandler) MyPosts(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return
	}
	posts, total, err := db.NewPostRepository(h.repo).ListByAuthor(
		c.Request.Context(), userID, pageParam(c), h.content.PostsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, postListPayload(posts, total, pageParam(c), h.content.PostsPerPage))
}

// Categories retrieves the category taxonomy with subcategories
func (h *PostHandler) Categories(c *gin.Context) {
	categories, err := db.NewCategoryRepository(h.repo).List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		subs := make([]gin.H, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			subs = append(subs, gin.H{"id": sub.ID, "name": sub.Name, "slug": sub.Slug})
		}
		items = append(items, gin.H{
			"id":            cat.ID,
			"name":          cat.Name,
			"slug":          cat.Slug,
			"subcategories": subs,
		})
	}
	OK(c, gin.H{"categories": items})
}

// ByCategory retrieves published posts in one category
func (h *PostHandler) ByCategory(c *gin.Context) {
	category, err := db.NewCategoryRepository(h.repo).GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		Fail(c, err)
		return
	}
	if category == nil {
		Fail(c, fmt.Errorf("%w: category %q", engine.ErrNotFound, c.Param("slug")))
		return
	}

	posts, total, err := db.NewPostRepository(h.repo).ListByCategory(
		c.Request.Context(), category.ID, pageParam(c), h.content.PostsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}

	payload := postListPayload(posts, total, pageParam(c), h.content.PostsPerPage)
	payload["category"] = gin.H{"id": category.ID, "name": category.Name, "slug": category.Slug}
	OK(c, payload)
}

// BySubcategory retrieves published posts in one subcategory
func (h *PostHandler) BySubcategory(c *gin.Context) {
	ctx := c.Request.Context()
	categories := db.NewCategoryRepository(h.repo)

	category, err := categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		Fail(c, err)
		return
	}
	if category == nil {
		Fail(c, fmt.Errorf("%w: category %q", engine.ErrNotFound, c.Param("slug")))
		return
	}

	sub, err := categories.GetSubcategory(ctx, category.ID, c.Param("subslug"))
	if err != nil {
		Fail(c, err)
		return
	}
	if sub == nil {
		Fail(c, fmt.Errorf("%w: subcategory %q", engine.ErrNotFound, c.Param("subslug")))
		return
	}

	posts, total, err := db.NewPostRepository(h.repo).ListBySubcategory(
		ctx, sub.ID, pageParam(c), h.content.PostsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}

	payload := postListPayload(posts, total, pageParam(c), h.content.PostsPerPage)
	payload["category"] = gin.H{"id": category.ID, "name": category.Name, "slug": category.Slug}
	payload["subcategory"] = gin.H{"id": sub.ID, "name": sub.Name, "slug": sub.Slug}
	OK(c, payload)
}

// Search retrieves published posts matching the query-string filter
func (h *PostHandler) Search(c *gin.Context) {
	filter := db.SearchFilter{
		Query:      strings.TrimSpace(c.Query("query")),
		CategoryID: intQuery(c, "category"),
		Rating:     int(intQuery(c, "rating")),
		YearFrom:   int(intQuery(c, "year_from")),
		YearTo:     int(intQuery(c, "year_to")),
	}

	posts, total, err := db.NewPostRepository(h.repo).Search(
		c.Request.Context(), filter, pageParam(c), h.content.PostsPerPage)
	if err != nil {
		Fail(c, err)
		return
	}

	payload := postListPayload(posts, total, pageParam(c), h.content.PostsPerPage)
	payload["query"] = filter.Query
	OK(c, payload)
}

// ownedPost resolves :slug and checks the caller may modify it
func (h *PostHandler) ownedPost(c *gin.Context) (*models.Post, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		Fail(c, ErrUnauthenticated)
		return nil, false
	}

	post, err := db.NewPostRepository(h.repo).GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		Fail(c, err)
		return nil, false
	}
	if post == nil {
		Fail(c, fmt.Errorf("%w: post %q", engine.ErrNotFound, c.Param("slug")))
		return nil, false
	}

	if post.AuthorID != userID {
		user, err := db.NewUserRepository(h.repo).GetByID(c.Request.Context(), userID)
		if err != nil {
			Fail(c, err)
			return nil, false
		}
		if user == nil || !user.IsStaff {
			Fail(c, fmt.Errorf("%w: post %q belongs to another author", engine.ErrForbidden, post.Slug))
			return nil, false
		}
	}
	return post, true
}

func (h *PostHandler) checkCategory(c *gin.Context, categoryID int64, subcategoryID *int64) error {
	ctx := c.Request.Context()
	categories := db.NewCategoryRepository(h.repo)

	category, err := categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: category %d", engine.ErrNotFound, categoryID)
	}

	if subcategoryID != nil {
		var count int64
		if err := h.repo.Gorm().WithContext(ctx).
			Model(&models.Subcategory{}).
			Where("id = ? AND category_id = ?", *subcategoryID, categoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: subcategory %d in category %d", engine.ErrNotFound, *subcategoryID, categoryID)
		}
	}
	return nil
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func intQuery(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func postListPayload(posts []*models.Post, total int64, page, perPage int) gin.H {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return gin.H{
		"posts":       postSummaries(posts),
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": totalPages,
	}
}

func postSummaries(posts []*models.Post) []gin.H {
	items := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		items = append(items, postSummaryPayload(p))
	}
	return items
}

func postSummaryPayload(p *models.Post) gin.H {
	item := gin.H{
		"id":           p.ID,
		"title":        p.Title,
		"slug":         p.Slug,
		"excerpt":      p.Excerpt,
		"movie_title":  p.MovieTitle,
		"rating":       p.Rating,
		"rating_stars": p.RatingStars(),
		"published":    p.Published,
		"featured":     p.Featured,
		"created_at":   p.CreatedAt,
	}
	if p.Author != nil {
		item["author"] = p.Author.Name()
	}
	if p.Category != nil {
		item["category"] = p.Category.Name
	}
	return item
}

func postDetailPayload(p *models.Post) gin.H {
	item := postSummaryPayload(p)
	item["content"] = p.Content
	item["director"] = p.Director
	if p.ReleaseYear.Valid {
		item["release_year"] = p.ReleaseYear.Int64
	}
	if p.Subcategory != nil {
		item["subcategory"] = p.Subcategory.Name
	}
	return item
}

func commentTreePayload(root *models.Comment) gin.H {
	item := commentPayload(root, root.Author)
	replies := make([]gin.H, 0, len(root.Replies))
	for i := range root.Replies {
		reply := &root.Replies[i]
		replies = append(replies, commentPayload(reply, reply.Author))
	}
	item["replies"] = replies
	return item
}
