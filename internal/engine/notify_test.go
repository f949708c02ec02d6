package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
)

func TestProcessMentions_EndToEnd(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	demo := createUser(t, repo, "demo")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)
	comment := createComment(t, repo, post, author, "Hola @demo, gran reseña!")

	notifier := NewNotifier(repo, nil)
	ctx := context.Background()

	if err := notifier.ProcessMentions(ctx, comment); err != nil {
		t.Fatalf("process mentions failed: %v", err)
	}

	page, err := notifier.List(ctx, demo.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected one notification, got %d", len(page.Items))
	}

	notif := page.Items[0]
	if notif.Type != models.NotifyMention {
		t.Errorf("expected mention type, got %q", notif.Type)
	}
	if notif.Title != "reviewer mentioned you" {
		t.Errorf("unexpected title %q", notif.Title)
	}
	if notif.SenderID != author.ID || notif.RecipientID != demo.ID {
		t.Errorf("wrong parties: sender=%d recipient=%d", notif.SenderID, notif.RecipientID)
	}
	if !notif.PostID.Valid || notif.PostID.Int64 != post.ID {
		t.Errorf("notification must carry the post id")
	}
	if !notif.CommentID.Valid || notif.CommentID.Int64 != comment.ID {
		t.Errorf("notification must carry the comment id")
	}
	if notif.IsRead {
		t.Errorf("new notifications start unread")
	}
}

func TestProcessMentions_UsesDisplayNameInTitle(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	author.DisplayName = sql.NullString{String: "María González", Valid: true}
	if err := db.NewUserRepository(repo).Update(context.Background(), author); err != nil {
		t.Fatalf("failed to set display name: %v", err)
	}
	demo := createUser(t, repo, "demo")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)
	comment := createComment(t, repo, post, author, "@demo mira esto")

	notifier := NewNotifier(repo, nil)
	if err := notifier.ProcessMentions(context.Background(), comment); err != nil {
		t.Fatalf("process mentions failed: %v", err)
	}

	page, err := notifier.List(context.Background(), demo.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Items[0].Title != "María González mentioned you" {
		t.Errorf("title should use the display name, got %q", page.Items[0].Title)
	}
}

func TestProcessMentions_MessageExcerpt(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	demo := createUser(t, repo, "demo")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)

	long := "@demo " + strings.Repeat("x", 200)
	comment := createComment(t, repo, post, author, long)

	notifier := NewNotifier(repo, nil)
	if err := notifier.ProcessMentions(context.Background(), comment); err != nil {
		t.Fatalf("process mentions failed: %v", err)
	}

	page, err := notifier.List(context.Background(), demo.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	msg := page.Items[0].Message
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("excerpt must end with ellipsis, got %q", msg)
	}
	if got := len([]rune(strings.TrimSuffix(msg, "..."))); got != 100 {
		t.Errorf("excerpt must keep the first 100 runes, kept %d", got)
	}
}

func TestProcessMentions_RetryIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	demo := createUser(t, repo, "demo")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)
	comment := createComment(t, repo, post, author, "hola @demo")

	notifier := NewNotifier(repo, nil)
	ctx := context.Background()

	if err := notifier.ProcessMentions(ctx, comment); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := notifier.ProcessMentions(ctx, comment); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	page, err := notifier.List(ctx, demo.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("a reprocessed comment must not duplicate notifications, got %d", len(page.Items))
	}

	mentions, err := db.NewMentionRepository(repo).ListByComment(ctx, comment.ID)
	if err != nil {
		t.Fatalf("mention list failed: %v", err)
	}
	if len(mentions) != 1 {
		t.Fatalf("expected one mention row, got %d", len(mentions))
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	demo := createUser(t, repo, "demo")
	stranger := createUser(t, repo, "stranger")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)

	notifier := NewNotifier(repo, nil)
	ctx := context.Background()

	for _, content := range []string{"hola @demo", "otra vez @demo"} {
		comment := createComment(t, repo, post, author, content)
		if err := notifier.ProcessMentions(ctx, comment); err != nil {
			t.Fatalf("process mentions failed: %v", err)
		}
	}

	count, err := notifier.UnreadCount(ctx, demo.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	page, err := notifier.List(ctx, demo.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	first := page.Items[0]

	// Only the recipient may mark it
	err = notifier.MarkRead(ctx, first.ID, stranger.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for another user's notification, got %v", err)
	}
	err = notifier.MarkRead(ctx, 99999, demo.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing notification, got %v", err)
	}

	if err := notifier.MarkRead(ctx, first.ID, demo.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	count, err = notifier.UnreadCount(ctx, demo.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread after mark read, got %d", count)
	}

	if err := notifier.MarkAllRead(ctx, demo.ID); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	count, err = notifier.UnreadCount(ctx, demo.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after mark all, got %d", count)
	}
}

func TestNotificationList_NewestFirstPaginated(t *testing.T) {
	repo := newTestRepo(t)
	author := createUser(t, repo, "reviewer")
	demo := createUser(t, repo, "demo")
	category := createCategory(t, repo, "Anime", "anime")
	post := createPost(t, repo, author, category, "chihiro", true)

	notifier := NewNotifier(repo, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		comment := createComment(t, repo, post, author, "ping @demo "+strings.Repeat("i", i+1))
		if err := notifier.ProcessMentions(ctx, comment); err != nil {
			t.Fatalf("process mentions failed: %v", err)
		}
	}

	page, err := notifier.List(ctx, demo.ID, 1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 5 || len(page.Items) != 2 {
		t.Fatalf("expected total 5 page of 2, got total=%d len=%d", page.Total, len(page.Items))
	}
	if page.Items[0].ID < page.Items[1].ID {
		t.Errorf("notifications must come newest first")
	}

	page3, err := notifier.List(ctx, demo.ID, 3, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page3.Items) != 1 {
		t.Fatalf("expected last page of 1, got %d", len(page3.Items))
	}
}
