package engine

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
)

// newTestRepo opens an in-memory database with the full schema
func newTestRepo(t *testing.T) *db.Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db.NewRepository(gdb)
}

func createUser(t *testing.T, repo *db.Repository, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.NewUserRepository(repo).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

func createCategory(t *testing.T, repo *db.Repository, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug}
	if err := db.NewCategoryRepository(repo).Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create category %q: %v", slug, err)
	}
	return category
}

func createPost(t *testing.T, repo *db.Repository, author *models.User, category *models.Category, slug string, published bool) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:      "Review " + slug,
		Slug:       slug,
		AuthorID:   author.ID,
		CategoryID: category.ID,
		Content:    "review body",
		Rating:     4,
		Published:  published,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := db.NewPostRepository(repo).Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create post %q: %v", slug, err)
	}
	return post
}

func createComment(t *testing.T, repo *db.Repository, post *models.Post, author *models.User, content string) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   content,
		Approved:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.NewCommentRepository(repo).Create(context.Background(), comment); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return comment
}

func createUnapprovedComment(t *testing.T, repo *db.Repository, post *models.Post, author *models.User) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   "held for review",
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Gorm().Create(comment).Error; err != nil {
		t.Fatalf("failed to create unapproved comment: %v", err)
	}
	// Create defaults approved to true at the column level; force it off
	if err := repo.Gorm().Model(comment).Update("approved", false).Error; err != nil {
		t.Fatalf("failed to unapprove comment: %v", err)
	}
	comment.Approved = false
	return comment
}
