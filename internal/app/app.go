package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/auth"
	"github.com/pampup/pamp/internal/config"
	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/prefs"
	"github.com/pampup/pamp/internal/state"
	"github.com/pampup/pamp/internal/ui"
)

// Options configure the pamp application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pamp/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	Server     string // overrides the configured server when set
}

// Run boots the pamp TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	session, err := auth.LoadSession(cfg.SessionFile)
	if err != nil {
		// A damaged session file only costs a login.
		log.Printf("discarding saved session: %v", err)
	}

	client, err := pamp.NewClient(cfg.Server, session)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	refresher := auth.NewRefresher(session, client, cfg.TokenRefresh)
	defer refresher.Stop()
	if session.LoggedIn() {
		refresher.Start(ctx)
	}

	StartPoller(ctx, store, client, session, interval)

	log.Printf("pamp starting: server=%s logged_in=%v", client.BaseURL(), session.LoggedIn())

	return ui.Run(ui.Options{
		Context:   ctx,
		API:       client,
		Store:     store,
		Session:   session,
		Refresher: refresher,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		PollTick:  interval,
		Refresh: func(ctx context.Context) error {
			return Refresh(ctx, store, client)
		},
	})
}

// openLog routes the standard logger to path so output never draws over the TUI.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "pamp")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
