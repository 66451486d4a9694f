package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./ytls.db" {
			t.Errorf("expected database path ./ytls.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Collector.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", config.Collector.PageSize)
		}

		if config.Credentials.ClientSecrets != "client_secrets.json" {
			t.Errorf("expected client secrets path client_secrets.json, got %s", config.Credentials.ClientSecrets)
		}

		if len(config.Credentials.Scopes) != 1 || config.Credentials.Scopes[0] != "https://www.googleapis.com/auth/youtube.readonly" {
			t.Errorf("expected readonly youtube scope, got %v", config.Credentials.Scopes)
		}
	})

	t.Run("RedirectURI", func(t *testing.T) {
		config := DefaultConfig()
		if uri := config.Server.RedirectURI(); uri != "http://127.0.0.1:3000/callback" {
			t.Errorf("expected redirect URI http://127.0.0.1:3000/callback, got %s", uri)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Collector.PageSize = 25
		config.Credentials.TokenCache = filepath.Join(tmpDir, "token.json")

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Collector.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", loaded.Collector.PageSize)
		}
		if loaded.Credentials.TokenCache != config.Credentials.TokenCache {
			t.Errorf("token cache path did not round trip")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
