package models

import (
	"database/sql"
	"errors"
	"testing"
)

func TestReactionTypeValid(t *testing.T) {
	for _, rt := range ReactionTypes {
		if !rt.Valid() {
			t.Errorf("%q should be valid", rt)
		}
	}
	for _, bad := range []ReactionType{"", "banana", "Like", "LIKE"} {
		if bad.Valid() {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestVoteTypeValid(t *testing.T) {
	if !VoteUp.Valid() || !VoteDown.Valid() {
		t.Error("upvote and downvote should be valid")
	}
	for _, bad := range []VoteType{"", "up", "sideways"} {
		if bad.Valid() {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestUserName(t *testing.T) {
	u := &User{Username: "demo"}
	if u.Name() != "demo" {
		t.Errorf("expected username fallback, got %q", u.Name())
	}

	u.DisplayName = sql.NullString{String: "María González", Valid: true}
	if u.Name() != "María González" {
		t.Errorf("expected display name, got %q", u.Name())
	}

	u.DisplayName = sql.NullString{String: "", Valid: true}
	if u.Name() != "demo" {
		t.Errorf("an empty display name falls back to the username, got %q", u.Name())
	}
}

func TestCommentIsReply(t *testing.T) {
	c := &Comment{}
	if c.IsReply() {
		t.Error("comment without parent is not a reply")
	}
	c.ParentID = sql.NullInt64{Int64: 7, Valid: true}
	if !c.IsReply() {
		t.Error("comment with parent is a reply")
	}
}

func TestPostRatingStars(t *testing.T) {
	tests := []struct {
		rating int
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{3, "⭐⭐⭐☆☆"},
		{5, "⭐⭐⭐⭐⭐"},
		{9, "⭐⭐⭐⭐⭐"},
		{-1, "☆☆☆☆☆"},
	}
	for _, tt := range tests {
		p := &Post{Rating: tt.rating}
		if got := p.RatingStars(); got != tt.want {
			t.Errorf("rating %d: expected %q, got %q", tt.rating, tt.want, got)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	author := sql.NullInt64{Int64: 1, Valid: true}
	category := sql.NullInt64{Int64: 2, Valid: true}

	tests := []struct {
		name string
		sub  Subscription
		ok   bool
	}{
		{"author target", Subscription{Type: SubscribeAuthor, AuthorID: author}, true},
		{"category target", Subscription{Type: SubscribeCategory, CategoryID: category}, true},
		{"author type without target", Subscription{Type: SubscribeAuthor}, false},
		{"category type without target", Subscription{Type: SubscribeCategory}, false},
		{"both targets", Subscription{Type: SubscribeAuthor, AuthorID: author, CategoryID: category}, false},
		{"mismatched target", Subscription{Type: SubscribeAuthor, CategoryID: category}, false},
		{"unknown type", Subscription{Type: "tag", AuthorID: author}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrSubscriptionTarget) {
				t.Fatalf("expected ErrSubscriptionTarget, got %v", err)
			}
		})
	}
}
