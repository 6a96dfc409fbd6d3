package shared

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
		if config.Server.Host == "" || config.Server.Port == 0 {
			t.Error("expected default server address")
		}
		if config.Sort.Threshold <= 0 || config.Sort.Threshold > 50 {
			t.Errorf("expected default threshold in 1..50, got %d", config.Sort.Threshold)
		}
		if config.Sort.RateLimit <= 0 {
			t.Errorf("expected positive default rate limit, got %f", config.Sort.RateLimit)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		original := DefaultConfig()
		original.Credentials.ClientID = "my_client"
		original.Credentials.AccessToken = "my_token"
		original.Sort.Threshold = 7

		if err := SaveConfig(path, original); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if loaded.Credentials.ClientID != "my_client" {
			t.Errorf("expected client ID preserved, got %s", loaded.Credentials.ClientID)
		}
		if loaded.Credentials.AccessToken != "my_token" {
			t.Errorf("expected access token preserved, got %s", loaded.Credentials.AccessToken)
		}
		if loaded.Sort.Threshold != 7 {
			t.Errorf("expected threshold preserved, got %d", loaded.Sort.Threshold)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.toml")
		os.WriteFile(path, []byte("this is { not toml"), 0644)

		_, err := LoadConfig(path)
		if err == nil {
			t.Error("expected error for invalid TOML")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		c := SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:8080/callback",
			AccessToken:  "at",
			RefreshToken: "rt",
		}

		m := c.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" {
			t.Error("expected credentials in map")
		}
		if m["access_token"] != "at" || m["refresh_token"] != "rt" {
			t.Error("expected tokens in map")
		}
	})

	t.Run("Update", func(t *testing.T) {
		c := SpotifyConfig{RefreshToken: "old_refresh"}

		err := c.Update(&oauth2.Token{AccessToken: "new_access"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if c.AccessToken != "new_access" {
			t.Errorf("expected access token updated, got %s", c.AccessToken)
		}
		// Refresh token is kept when the new token omits one
		if c.RefreshToken != "old_refresh" {
			t.Errorf("expected refresh token preserved, got %s", c.RefreshToken)
		}
	})

	t.Run("Update Nil Token", func(t *testing.T) {
		c := SpotifyConfig{}
		if err := c.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})

	t.Run("Token", func(t *testing.T) {
		c := SpotifyConfig{AccessToken: "at", RefreshToken: "rt"}
		token := c.Token()

		if token.AccessToken != "at" || token.RefreshToken != "rt" {
			t.Error("expected tokens converted")
		}
	})
}
