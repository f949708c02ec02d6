package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/resenahub/resenahub/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// SearchFilter narrows a post search. Zero values mean "not filtered".
type SearchFilter struct {
	Query      string
	CategoryID int64
	Rating     int
	YearFrom   int
	YearTo     int
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug. When publishedOnly is set, draft
// posts are treated as absent.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Subcategory").
		Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var post models.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// SlugExists reports whether a slug is already taken
func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete deletes a post along with its comments and reactions
func (r *PostRepository) Delete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Select("Comments", "Reactions").Delete(post).Error
}

// ListPublished retrieves published posts, newest first, paginated
func (r *PostRepository) ListPublished(ctx context.Context, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("published = ?", true)
	return r.paginate(ctx, query, page, perPage)
}

// ListByCategory retrieves published posts in a category, paginated
func (r *PostRepository) ListByCategory(ctx context.Context, categoryID int64, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category_id = ? AND published = ?", categoryID, true)
	return r.paginate(ctx, query, page, perPage)
}

// ListBySubcategory retrieves published posts in a subcategory, paginated
func (r *PostRepository) ListBySubcategory(ctx context.Context, subcategoryID int64, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("subcategory_id = ? AND published = ?", subcategoryID, true)
	return r.paginate(ctx, query, page, perPage)
}

// ListByAuthor retrieves all of an author's posts, drafts included
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID)
	return r.paginate(ctx, query, page, perPage)
}

// ListFeatured retrieves the most recent featured posts
func (r *PostRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("published = ? AND featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListRelated retrieves other published posts from the same category
func (r *PostRepository) ListRelated(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("category_id = ? AND published = ? AND id <> ?", post.CategoryID, true, post.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search retrieves published posts matching the filter, paginated.
// Conditions are applied only for filter fields that are set.
func (r *PostRepository) Search(ctx context.Context, filter SearchFilter, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("published = ?", true)

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(
			"title LIKE ? OR movie_title LIKE ? OR content LIKE ? OR director LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Rating > 0 {
		query = query.Where("rating = ?", filter.Rating)
	}
	if filter.YearFrom > 0 {
		query = query.Where("release_year >= ?", filter.YearFrom)
	}
	if filter.YearTo > 0 {
		query = query.Where("release_year <= ?", filter.YearTo)
	}

	return r.paginate(ctx, query, page, perPage)
}

// paginate applies newest-first ordering and page/perPage windowing to
// a prepared query, returning the page and the unwindowed total.
func (r *PostRepository) paginate(ctx context.Context, query *gorm.DB, page, perPage int) ([]*models.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	if err := query.
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
