package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pelletier/go-toml/v2"

	"github.com/pampup/pamp/internal/pamp"
)

// ErrNoRefreshToken is returned when a refresh is attempted while logged out.
var ErrNoRefreshToken = errors.New("no refresh token")

// ErrSessionChanged is returned when the session was replaced or cleared while
// a refresh with its previous refresh token was in flight.
var ErrSessionChanged = errors.New("session changed during refresh")

// Session is the authenticated identity shared by the API client, the
// refresher and the UI. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	path    string
	access  string
	refresh string
	user    pamp.User
	done    chan struct{}
}

type sessionFile struct {
	Access  string   `toml:"access"`
	Refresh string   `toml:"refresh"`
	User    userFile `toml:"user"`
}

type userFile struct {
	ID       int64  `toml:"id"`
	Username string `toml:"username"`
	Email    string `toml:"email"`
}

// NewSession returns a logged-out session persisted at path. An empty path
// keeps the session in memory only.
func NewSession(path string) *Session {
	done := make(chan struct{})
	close(done)
	return &Session{path: path, done: done}
}

// LoadSession restores a session saved at path. A missing file yields a
// logged-out session.
func LoadSession(path string) (*Session, error) {
	s := NewSession(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	var f sessionFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(f.Access) == "" {
		return s, nil
	}
	s.access = f.Access
	s.refresh = f.Refresh
	s.user = pamp.User{ID: f.User.ID, Username: f.User.Username, Email: f.User.Email}
	s.done = make(chan struct{})
	return s, nil
}

// Login stores new credentials and persists them.
func (s *Session) Login(access, refresh string, user pamp.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.user = user
	select {
	case <-s.done:
		s.done = make(chan struct{})
	default:
	}
	return s.saveLocked()
}

// Logout clears the credentials, removes the persisted file and closes Done.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.user = pamp.User{}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// SetAccess stores the access token obtained with refresh. It only writes
// while refresh is still the session's refresh token.
func (s *Session) SetAccess(refresh, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refresh == "" {
		return ErrNoRefreshToken
	}
	if s.refresh != refresh {
		return ErrSessionChanged
	}
	s.access = token
	return s.saveLocked()
}

// SetUser replaces the cached user, for example after the profile is fetched.
func (s *Session) SetUser(user pamp.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.access == "" {
		return nil
	}
	s.user = user
	return s.saveLocked()
}

// LoggedIn reports whether an access token is held.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access != ""
}

func (s *Session) User() pamp.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// AccessToken implements pamp.TokenSource.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// Done is closed when the session logs out. Login replaces it.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Expiry reads the exp claim of the access token. The signature is not
// checked; the server remains the authority on validity.
func (s *Session) Expiry() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	return TokenExpiry(token)
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := toml.Marshal(sessionFile{
		Access:  s.access,
		Refresh: s.refresh,
		User:    userFile{ID: s.user.ID, Username: s.user.Username, Email: s.user.Email},
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
