package engine

import (
	"context"
	"testing"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
)

func TestMentionDetect(t *testing.T) {
	repo := newTestRepo(t)
	createUser(t, repo, "demo")
	createUser(t, repo, "anime_lover")
	commenter := createUser(t, repo, "commenter")

	detector := NewMentionDetector(repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "resolves known users and skips unknown",
			content: "Hola @demo y @anime_lover, gran reseña! @noexiste",
			want:    []string{"demo", "anime_lover"},
		},
		{
			name:    "repeated mention counts once",
			content: "@demo @demo @demo",
			want:    []string{"demo"},
		},
		{
			name:    "underscore names parse fully",
			content: "cc @anime_lover",
			want:    []string{"anime_lover"},
		},
		{
			name:    "punctuation ends the username",
			content: "thanks @demo!",
			want:    []string{"demo"},
		},
		{
			name:    "no mentions",
			content: "just a plain comment",
			want:    nil,
		},
		{
			name:    "bare at sign",
			content: "meet @ noon",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := detector.Detect(ctx, tt.content, commenter.ID)
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if len(users) != len(tt.want) {
				t.Fatalf("expected %d users, got %d", len(tt.want), len(users))
			}
			got := make(map[string]bool, len(users))
			for _, u := range users {
				got[u.Username] = true
			}
			for _, username := range tt.want {
				if !got[username] {
					t.Errorf("expected %q among detected users", username)
				}
			}
		})
	}
}

func TestMentionDetect_ExcludesAuthor(t *testing.T) {
	repo := newTestRepo(t)
	demo := createUser(t, repo, "demo")
	other := createUser(t, repo, "other")

	detector := NewMentionDetector(repo)
	users, err := detector.Detect(context.Background(), "@demo mentions @other and themselves", demo.ID)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != other.ID {
		t.Fatalf("self-mentions must be dropped, got %v", users)
	}
}

func TestMentionDetect_QueriesOnlySeenNames(t *testing.T) {
	repo := newTestRepo(t)
	commenter := createUser(t, repo, "commenter")

	// No lookup noise when nothing matches the pattern
	detector := NewMentionDetector(repo)
	users, err := detector.Detect(context.Background(), "email me at user at example dot com", commenter.ID)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %d", len(users))
	}

	// Sanity: the repository resolves by exact username only
	found, err := db.NewUserRepository(repo).GetByUsernames(context.Background(), []string{"commenter", "ghost"})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(found) != 1 || found[0].Username != "commenter" {
		t.Fatalf("unexpected lookup result: %v", usernames(found))
	}
}

func usernames(users []*models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}
