package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.PlayerSpeed != 0.005 {
		t.Errorf("player speed = %v, want 0.005", cfg.Game.PlayerSpeed)
	}
	if cfg.Game.SpawnCooldown != 2*time.Second {
		t.Errorf("spawn cooldown = %v, want 2s", cfg.Game.SpawnCooldown)
	}
	if cfg.Game.Pebbles != 10 || cfg.Game.PebbleRadius != 10 {
		t.Errorf("pebbles = %d within %v, want 10 within 10", cfg.Game.Pebbles, cfg.Game.PebbleRadius)
	}
	if cfg.SSH.Port != "2222" || cfg.Web.Port != "8080" {
		t.Errorf("ports = %s/%s, want 2222/8080", cfg.SSH.Port, cfg.Web.Port)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "websnake.toml", `
[game]
spawn_cooldown = "500ms"
initial_bots = 3

[terminal]
key_hold = "80ms"

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.SpawnCooldown != 500*time.Millisecond {
		t.Errorf("spawn cooldown = %v, want 500ms", cfg.Game.SpawnCooldown)
	}
	if cfg.Game.InitialBots != 3 {
		t.Errorf("initial bots = %d, want 3", cfg.Game.InitialBots)
	}
	if cfg.Terminal.KeyHold != 80*time.Millisecond {
		t.Errorf("key hold = %v, want 80ms", cfg.Terminal.KeyHold)
	}
	if cfg.Game.PlayerSpeed != 0.005 {
		t.Errorf("untouched player speed = %v, want default", cfg.Game.PlayerSpeed)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "websnake.toml"))
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if *cfg != *defaults() {
		t.Errorf("sample config drifted from defaults:\n got %+v\nwant %+v", *cfg, *defaults())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[game\n")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(writeFile(t, "neg.toml", "[game]\nplayer_speed = -1\n")); err == nil {
		t.Error("expected validation error for negative speed")
	}
	if _, err := Load(writeFile(t, "arena.toml", "[game]\narena_half_extent = 5.0\n")); err == nil {
		t.Error("expected validation error for tiny arena")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SSH_PORT", "2022")
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("WEBSNAKE_SEED", "99")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.SSH.Port != "2022" || cfg.Web.Host != "127.0.0.1" || cfg.Logging.Level != "warn" {
		t.Errorf("env not applied: ssh=%s web=%s level=%s", cfg.SSH.Port, cfg.Web.Host, cfg.Logging.Level)
	}
	if cfg.Game.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Game.Seed)
	}

	t.Setenv("WEBSNAKE_SEED", "abc")
	if err := ApplyEnv(Default()); err == nil {
		t.Error("expected error for bad seed")
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("WEBSNAKE_TEST_SET", "x")
	if got := GetEnv("WEBSNAKE_TEST_SET", "y"); got != "x" {
		t.Errorf("GetEnv = %q, want x", got)
	}
	if got := GetEnv("WEBSNAKE_TEST_UNSET_KEY", "y"); got != "y" {
		t.Errorf("GetEnv = %q, want fallback y", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "WEBSNAKE_DOTENV_A=from-file\nWEBSNAKE_DOTENV_B=from-file\n")
	t.Setenv("WEBSNAKE_DOTENV_B", "from-env")
	os.Unsetenv("WEBSNAKE_DOTENV_A")
	t.Cleanup(func() { os.Unsetenv("WEBSNAKE_DOTENV_A") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("WEBSNAKE_DOTENV_A"); got != "from-file" {
		t.Errorf("A = %q, want from-file", got)
	}
	if got := os.Getenv("WEBSNAKE_DOTENV_B"); got != "from-env" {
		t.Errorf("B = %q, existing variables must win", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := NewLogger(LoggingConfig{Level: "nonsense", Format: format})
		if err != nil {
			t.Fatalf("NewLogger(%s): %v", format, err)
		}
		if !log.Core().Enabled(0) || log.Core().Enabled(-1) {
			t.Errorf("%s logger should fall back to info level", format)
		}
	}

	file := filepath.Join(t.TempDir(), "websnake.log")
	log, err := NewLogger(LoggingConfig{Level: "debug", File: file})
	if err != nil {
		t.Fatalf("NewLogger(file): %v", err)
	}
	log.Info("hello")
	_ = log.Sync()
	data, err := os.ReadFile(file)
	if err != nil || len(data) == 0 {
		t.Fatalf("log file empty: %v", err)
	}
}
