package models

import (
	"time"
)

// Category groups posts by theme (movies, anime, series, ...)
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:categories_name_ux;column:name"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex:categories_slug_ux;column:slug"`
	Description string    `gorm:"type:text;not null;default:'';column:description"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Subcategory refines a category (e.g. anime -> shounen).
// The slug is unique per parent category, not globally.
type Subcategory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string    `gorm:"type:varchar(100);not null;column:name"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex:subcategories_cat_slug_ux;column:slug"`
	CategoryID  int64     `gorm:"not null;uniqueIndex:subcategories_cat_slug_ux;index;column:category_id"`
	Description string    `gorm:"type:text;not null;default:'';column:description"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for Subcategory
func (Subcategory) TableName() string {
	return "subcategories"
}
