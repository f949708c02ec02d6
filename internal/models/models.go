package models

import "gorm.io/gorm"

// All lists every persisted model, in dependency order, for migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Subcategory{},
		&Post{},
		&Comment{},
		&PostReaction{},
		&CommentVote{},
		&Mention{},
		&Notification{},
		&Subscription{},
	}
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
