// Package prefs persists the small amount of UI state pamp remembers between
// runs: the colour theme, the view that was open on exit and which post list
// was showing. Preferences live in ~/.config/pamp/prefs.toml.
//
// Preferences are never worth failing over. Load returns defaults for a
// missing, unreadable or malformed file and only Save reports errors.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pampup/pamp/internal/config"
)

// Prefs holds user preferences for pamp.
type Prefs struct {
	Theme      string `toml:"theme"`
	View       string `toml:"view"`
	PostsScope string `toml:"posts_scope"`
}

// Known values for View and PostsScope.
const (
	ViewPosts    = "posts"
	ViewCalendar = "calendar"
	ViewProfile  = "profile"

	ScopeMine = "mine"
	ScopeAll  = "all"
)

const (
	defaultPrefsPath = "~/.config/pamp/prefs.toml"
	defaultTheme     = "Forest"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used before anything is saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, View: ViewPosts, PostsScope: ScopeMine}
}

// Load reads preferences from the given path, falling back to defaults.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults(), nil
	}
	return p.normalize(), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// normalize replaces blank or unknown values with defaults.
func (p Prefs) normalize() Prefs {
	def := Defaults()
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = def.Theme
	}
	switch v := strings.ToLower(strings.TrimSpace(p.View)); v {
	case ViewPosts, ViewCalendar, ViewProfile:
		p.View = v
	default:
		p.View = def.View
	}
	switch v := strings.ToLower(strings.TrimSpace(p.PostsScope)); v {
	case ScopeMine, ScopeAll:
		p.PostsScope = v
	default:
		p.PostsScope = def.PostsScope
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
