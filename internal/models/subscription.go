package models

import (
	"database/sql"
	"errors"
	"time"
)

// ErrSubscriptionTarget is returned when a subscription's target does
// not line up with its type
var ErrSubscriptionTarget = errors.New("subscription must target exactly one of author or category, matching its type")

// Subscription is a standing interest in an author's or a category's
// future posts. Exactly one of AuthorID/CategoryID is set, matching
// Type; uniqueness per (user, type, target) is enforced by two partial
// unique indexes since one of the columns is always NULL.
type Subscription struct {
	ID         int64            `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64            `gorm:"not null;index;uniqueIndex:subscriptions_user_author_ux;uniqueIndex:subscriptions_user_category_ux;column:user_id"`
	Type       SubscriptionType `gorm:"type:varchar(10);not null;column:subscription_type"`
	AuthorID   sql.NullInt64    `gorm:"uniqueIndex:subscriptions_user_author_ux;column:author_id"`
	CategoryID sql.NullInt64    `gorm:"uniqueIndex:subscriptions_user_category_ux;column:category_id"`
	CreatedAt  time.Time        `gorm:"not null;column:created_at"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;references:ID"`
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// Validate enforces the exactly-one-target invariant
func (s *Subscription) Validate() error {
	switch s.Type {
	case SubscribeAuthor:
		if !s.AuthorID.Valid || s.CategoryID.Valid {
			return ErrSubscriptionTarget
		}
	case SubscribeCategory:
		if !s.CategoryID.Valid || s.AuthorID.Valid {
			return ErrSubscriptionTarget
		}
	default:
		return ErrSubscriptionTarget
	}
	return nil
}
