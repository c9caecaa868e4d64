package shared

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "")
		config := DefaultConfig()

		if config.Database.Path != "./soundx.db" {
			t.Errorf("expected database path ./soundx.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "http://localhost:3001/api" {
			t.Errorf("expected api base URL http://localhost:3001/api, got %s", config.API.BaseURL)
		}

		if config.API.Timeout.Duration != 0 {
			t.Errorf("expected no default timeout, got %v", config.API.Timeout.Duration)
		}

		if config.Player.Command != "mpv" {
			t.Errorf("expected player command mpv, got %s", config.Player.Command)
		}
	})

	t.Run("Env Overrides Base URL", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "http://api.example.com/api")

		if got := DefaultConfig().API.BaseURL; got != "http://api.example.com/api" {
			t.Errorf("expected env base URL, got %s", got)
		}
	})

	t.Run("Env File Sets Base URL", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "")
		os.Unsetenv(BaseURLEnv)

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte(BaseURLEnv+"=http://dotenv.example.com/api\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile failed: %v", err)
		}
		if got := DefaultConfig().API.BaseURL; got != "http://dotenv.example.com/api" {
			t.Errorf("expected base URL from env file, got %s", got)
		}
	})

	t.Run("Env File Keeps Existing Variables", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "http://shell.example.com/api")

		path := filepath.Join(t.TempDir(), ".env")
		os.WriteFile(path, []byte(BaseURLEnv+"=http://dotenv.example.com/api\n"), 0644)

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile failed: %v", err)
		}
		if got := DefaultConfig().API.BaseURL; got != "http://shell.example.com/api" {
			t.Errorf("expected shell value to win, got %s", got)
		}
	})

	t.Run("Missing Env File", func(t *testing.T) {
		err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "")
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Setenv(BaseURLEnv, "")
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "http://music.local/api"
timeout = "15s"

[database]
path = "/custom/path.db"

[player]
command = "ffplay"
args = ["-nodisp", "-autoexit"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://music.local/api" {
			t.Errorf("expected base URL http://music.local/api, got %s", config.API.BaseURL)
		}
		if config.API.Timeout.Duration != 15*time.Second {
			t.Errorf("expected timeout 15s, got %v", config.API.Timeout.Duration)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Player.Command != "ffplay" || len(config.Player.Args) != 2 {
			t.Errorf("unexpected player config: %+v", config.Player)
		}
		if config.Log.Level != "info" {
			t.Errorf("expected unset log level to keep default, got %q", config.Log.Level)
		}
	})

	t.Run("LoadConfig Rejects Bad Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("ResolveConfig Missing File", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config == nil || config.Database.Path == "" {
			t.Error("expected default config")
		}
	})
}
