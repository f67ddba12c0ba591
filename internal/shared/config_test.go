package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Chart.BaseURL == "" {
			t.Error("expected default chart base URL")
		}
		if config.Server.Port == 0 {
			t.Error("expected default server port")
		}
		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://127.0.0.1:9999/callback"

[chart]
base_url = "http://example.com/chart"
timeout_seconds = 5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id abc, got %q", config.Credentials.Spotify.ClientID)
		}
		if config.Chart.BaseURL != "http://example.com/chart" {
			t.Errorf("unexpected chart base URL %q", config.Chart.BaseURL)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv Overrides TOML", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "env-secret")
		t.Setenv(EnvRedirectURI, "http://127.0.0.1:1234/callback")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "toml-id"
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env to win, got %q", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env-secret" {
			t.Errorf("expected env secret, got %q", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("RequireCredentials", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Spotify = SpotifyConfig{}

		err := config.RequireCredentials()
		if !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		for _, name := range []string{EnvClientID, EnvClientSecret, EnvRedirectURI} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("expected diagnostic to name %s, got %v", name, err)
			}
		}

		config.Credentials.Spotify = SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://127.0.0.1:8888/callback",
		}
		if err := config.RequireCredentials(); err != nil {
			t.Errorf("expected no error with full credentials, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("created config should be loadable, got %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
