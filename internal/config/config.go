package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client settings read from config.toml.
type Config struct {
	Server       string
	SessionFile  string
	LogFile      string
	Location     *time.Location
	HorizonWeeks int
	TokenRefresh time.Duration
	PollInterval time.Duration
	SlotHour     int
	TelegramBot  string
	ICSExport    string
}

const (
	defaultConfigPath   = "~/.config/pamp/config.toml"
	defaultServer       = "127.0.0.1:8000"
	defaultSessionFile  = "~/.local/state/pamp/session.toml"
	defaultLogFile      = "~/.local/state/pamp/pamp.log"
	defaultICSExport    = "~/pamp-sessions.ics"
	defaultTelegramBot  = "reminder_training_bot"
	defaultHorizonWeeks = 4
	defaultRefreshMins  = 15
	defaultPollSeconds  = 30
	defaultSlotHour     = 18
)

type rawConfig struct {
	Server              string `toml:"server"`
	SessionFile         string `toml:"session_file"`
	LogFile             string `toml:"log_file"`
	Timezone            string `toml:"timezone"`
	HorizonWeeks        int    `toml:"horizon_weeks" validate:"omitempty,min=1,max=52"`
	TokenRefreshMinutes int    `toml:"token_refresh_minutes" validate:"omitempty,min=1,max=1440"`
	PollSeconds         int    `toml:"poll_seconds" validate:"omitempty,min=1,max=3600"`
	SlotHour            *int   `toml:"slot_hour" validate:"omitempty,min=0,max=23"`
	TelegramBot         string `toml:"telegram_bot"`
	ICSExport           string `toml:"ics_export"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:       defaultServer,
		SessionFile:  mustExpand(defaultSessionFile),
		LogFile:      mustExpand(defaultLogFile),
		Location:     time.Local,
		HorizonWeeks: defaultHorizonWeeks,
		TokenRefresh: defaultRefreshMins * time.Minute,
		PollInterval: defaultPollSeconds * time.Second,
		SlotHour:     defaultSlotHour,
		TelegramBot:  defaultTelegramBot,
		ICSExport:    mustExpand(defaultICSExport),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(raw); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	if v := strings.TrimSpace(raw.Server); v != "" {
		cfg.Server = v
	}
	if v := strings.TrimSpace(raw.SessionFile); v != "" {
		cfg.SessionFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ICSExport); v != "" {
		cfg.ICSExport = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.TelegramBot); v != "" {
		cfg.TelegramBot = strings.TrimPrefix(v, "@")
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("load timezone %q: %w", v, err)
		}
		cfg.Location = loc
	}
	if raw.HorizonWeeks > 0 {
		cfg.HorizonWeeks = raw.HorizonWeeks
	}
	if raw.TokenRefreshMinutes > 0 {
		cfg.TokenRefresh = time.Duration(raw.TokenRefreshMinutes) * time.Minute
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.SlotHour != nil {
		cfg.SlotHour = *raw.SlotHour
	}

	return cfg, nil
}

// Horizon returns the calendar expansion window.
func (c Config) Horizon() time.Duration {
	weeks := c.HorizonWeeks
	if weeks <= 0 {
		weeks = defaultHorizonWeeks
	}
	return time.Duration(weeks) * 7 * 24 * time.Hour
}

// ExpandPath resolves ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
