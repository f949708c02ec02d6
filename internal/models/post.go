package models

import (
	"database/sql"
	"strings"
	"time"
)

// Post represents a published review
type Post struct {
	ID            int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Title         string        `gorm:"type:varchar(200);not null;column:title"`
	Slug          string        `gorm:"type:varchar(200);not null;uniqueIndex:posts_slug_ux;column:slug"`
	AuthorID      int64         `gorm:"not null;index;column:author_id"`
	CategoryID    int64         `gorm:"not null;index:posts_category_published_idx;column:category_id"`
	SubcategoryID sql.NullInt64 `gorm:"index;column:subcategory_id"`
	Content       string        `gorm:"type:text;not null;column:content"`
	Excerpt       string        `gorm:"type:varchar(300);not null;default:'';column:excerpt"`

	// Review fields
	MovieTitle  string        `gorm:"type:varchar(200);not null;default:'';column:movie_title"`
	Director    string        `gorm:"type:varchar(200);not null;default:'';column:director"`
	ReleaseYear sql.NullInt64 `gorm:"column:release_year"`
	Rating      int           `gorm:"type:smallint;not null;default:3;column:rating"`

	Published bool      `gorm:"not null;default:false;index:posts_category_published_idx;column:published"`
	Featured  bool      `gorm:"not null;default:false;column:featured"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships; reactions and comments die with the post
	Author      *User          `gorm:"foreignKey:AuthorID;references:ID"`
	Category    *Category      `gorm:"foreignKey:CategoryID;references:ID"`
	Subcategory *Subcategory   `gorm:"foreignKey:SubcategoryID;references:ID"`
	Comments    []Comment      `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Reactions   []PostReaction `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// RatingStars renders the 1-5 rating as filled and hollow stars
func (p *Post) RatingStars() string {
	r := p.Rating
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	return strings.Repeat("⭐", r) + strings.Repeat("☆", 5-r)
}
