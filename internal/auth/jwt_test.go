package auth

import (
	"testing"
	"time"

	"github.com/resenahub/resenahub/internal/models"
	"github.com/resenahub/resenahub/pkg/config"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})

	user := &models.User{ID: 42, Username: "demo"}
	token, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "demo" {
		t.Errorf("Username = %q, want %q", claims.Username, "demo")
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	mgr := NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Verify(tt.token); err == nil {
				t.Error("Verify() accepted an invalid token")
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager(&config.AuthConfig{
			JWTSecret: "other-secret",
			TokenTTL:  time.Hour,
		})
		token, err := other.Issue(&models.User{ID: 1, Username: "demo"})
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if _, err := mgr.Verify(token); err == nil {
			t.Error("Verify() accepted a token signed with another secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager(&config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  -time.Minute,
		})
		token, err := expired.Issue(&models.User{ID: 1, Username: "demo"})
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if _, err := mgr.Verify(token); err == nil {
			t.Error("Verify() accepted an expired token")
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
