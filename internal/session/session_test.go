package session

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestCache(t *testing.T) {
	t.Run("Save And Load Round Trip", func(t *testing.T) {
		cache := NewCache(filepath.Join(t.TempDir(), "nested", "session.json"))

		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
		}
		if err := cache.Save(token); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := cache.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a token")
		}
		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", loaded)
		}
		if !loaded.Expiry.Equal(token.Expiry) {
			t.Errorf("expected expiry %v, got %v", token.Expiry, loaded.Expiry)
		}
	})

	t.Run("Missing File Is Not An Error", func(t *testing.T) {
		cache := NewCache(filepath.Join(t.TempDir(), "session.json"))

		token, err := cache.Load()
		if err != nil {
			t.Fatalf("expected no error for missing session, got %v", err)
		}
		if token != nil {
			t.Errorf("expected nil token, got %+v", token)
		}
	})

	t.Run("Save Rejects Nil Token", func(t *testing.T) {
		cache := NewCache(filepath.Join(t.TempDir(), "session.json"))
		if err := cache.Save(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		cache := NewCache(filepath.Join(t.TempDir(), "session.json"))

		if err := cache.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := cache.Clear(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token, _ := cache.Load(); token != nil {
			t.Errorf("expected session removed, got %+v", token)
		}
		if err := cache.Clear(); err != nil {
			t.Errorf("expected clearing a missing session to be a no-op, got %v", err)
		}
	})
}
