package engine

import (
	"context"
	"regexp"

	"github.com/resenahub/resenahub/internal/db"
	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/telemetry"
)

// mentionPattern matches @ followed by word characters. Username
// matching against the directory is case-sensitive.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// MentionDetector resolves @username tokens in comment text against the
// user directory
type MentionDetector struct {
	users *db.UserRepository
}

// NewMentionDetector creates a new mention detector
func NewMentionDetector(repo *db.Repository) *MentionDetector {
	return &MentionDetector{users: db.NewUserRepository(repo)}
}

// Detect extracts the set of users mentioned in text. Tokens that match
// no stored username are silently dropped, repeated mentions collapse,
// and the author never appears in the result.
func (d *MentionDetector) Detect(ctx context.Context, text string, authorID int64) ([]*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "mention.detect")
	defer span.End()

	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(matches))
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		candidates = append(candidates, name)
	}

	users, err := d.users.GetByUsernames(ctx, candidates)
	if err != nil {
		return nil, err
	}

	mentioned := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID == authorID {
			continue
		}
		mentioned = append(mentioned, u)
	}
	return mentioned, nil
}
