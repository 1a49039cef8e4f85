package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}

	wantSession, err := expandPath(defaultSessionFile)
	if err != nil {
		t.Fatalf("expandPath(defaultSessionFile) returned error: %v", err)
	}
	if cfg.SessionFile != wantSession {
		t.Fatalf("SessionFile = %q, want %q", cfg.SessionFile, wantSession)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.PollInterval != 30*time.Second || cfg.TokenRefresh != 15*time.Minute {
		t.Fatalf("intervals = %v/%v, want 30s/15m", cfg.PollInterval, cfg.TokenRefresh)
	}
	if cfg.Horizon() != 28*24*time.Hour {
		t.Fatalf("Horizon = %v, want 4 weeks", cfg.Horizon())
	}
	if cfg.SlotHour != 18 || cfg.TelegramBot != "reminder_training_bot" || cfg.Location != time.Local {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "  https://train.example.com  "
session_file = "  ~/.pamp/session.toml  "
timezone = "UTC"
horizon_weeks = 8
token_refresh_minutes = 5
poll_seconds = 10
slot_hour = 0
telegram_bot = "@my_bot"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "https://train.example.com" {
		t.Fatalf("Server = %q, want %q", cfg.Server, "https://train.example.com")
	}
	if cfg.SessionFile != filepath.Join(home, ".pamp", "session.toml") {
		t.Fatalf("SessionFile = %q, want it under HOME %q", cfg.SessionFile, home)
	}
	if cfg.Location.String() != "UTC" {
		t.Fatalf("Location = %v, want UTC", cfg.Location)
	}
	if cfg.Horizon() != 8*7*24*time.Hour || cfg.TokenRefresh != 5*time.Minute || cfg.PollInterval != 10*time.Second {
		t.Fatalf("durations = %v/%v/%v", cfg.Horizon(), cfg.TokenRefresh, cfg.PollInterval)
	}
	if cfg.SlotHour != 0 {
		t.Fatalf("SlotHour = %d, want explicit 0", cfg.SlotHour)
	}
	if cfg.TelegramBot != "my_bot" {
		t.Fatalf("TelegramBot = %q, want my_bot", cfg.TelegramBot)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "   "
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.SlotHour != defaultSlotHour {
		t.Fatalf("SlotHour = %d, want %d", cfg.SlotHour, defaultSlotHour)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid toml", `server = [`, "parse config"},
		{"horizon too large", `horizon_weeks = 100`, "validate config"},
		{"slot hour out of range", `slot_hour = 24`, "validate config"},
		{"unknown timezone", `timezone = "Mars/Olympus"`, "load timezone"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want %s error", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %s", err.Error(), tc.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
