package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/resenahub/resenahub/internal/models"
)

func TestSubscribe(t *testing.T) {
	repo := newTestRepo(t)
	reader := createUser(t, repo, "reader")
	author := createUser(t, repo, "author")
	category := createCategory(t, repo, "Anime", "anime")

	svc := NewSubscriptionService(repo)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, reader.ID, models.SubscribeAuthor, author.ID)
	if err != nil {
		t.Fatalf("author subscribe failed: %v", err)
	}
	if !sub.AuthorID.Valid || sub.AuthorID.Int64 != author.ID || sub.CategoryID.Valid {
		t.Fatalf("author subscription must target only the author: %+v", sub)
	}

	// Repeating is a no-op on the same row
	again, err := svc.Subscribe(ctx, reader.ID, models.SubscribeAuthor, author.ID)
	if err != nil {
		t.Fatalf("repeat subscribe failed: %v", err)
	}
	if again.ID != sub.ID {
		t.Fatalf("repeat subscribe must reuse the row, got %d and %d", sub.ID, again.ID)
	}

	if _, err := svc.Subscribe(ctx, reader.ID, models.SubscribeCategory, category.ID); err != nil {
		t.Fatalf("category subscribe failed: %v", err)
	}

	subs, err := svc.List(ctx, reader.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected two subscriptions, got %d", len(subs))
	}
}

func TestSubscribe_TargetMustExist(t *testing.T) {
	repo := newTestRepo(t)
	reader := createUser(t, repo, "reader")

	svc := NewSubscriptionService(repo)
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, reader.ID, models.SubscribeAuthor, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing author, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, reader.ID, models.SubscribeCategory, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing category, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, reader.ID, models.SubscriptionType("tag"), 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown type, got %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	repo := newTestRepo(t)
	reader := createUser(t, repo, "reader")
	author := createUser(t, repo, "author")

	svc := NewSubscriptionService(repo)
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, reader.ID, models.SubscribeAuthor, author.ID); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Unsubscribe(ctx, reader.ID, models.SubscribeAuthor, author.ID); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}

	subs, err := svc.List(ctx, reader.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected no subscriptions after unsubscribe, got %d", len(subs))
	}

	// Removing an absent subscription succeeds quietly
	if err := svc.Unsubscribe(ctx, reader.ID, models.SubscribeAuthor, author.ID); err != nil {
		t.Fatalf("unsubscribe of absent row must be a no-op, got %v", err)
	}
}
