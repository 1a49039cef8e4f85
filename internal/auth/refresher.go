package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultRefreshInterval matches the server's access-token lifetime margin.
const DefaultRefreshInterval = 15 * time.Minute

// TokenRefresher trades a refresh token for a new access token.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refresh string) (string, error)
}

// Refresher periodically renews the session's access token. A failed refresh
// logs the session out.
type Refresher struct {
	session  *Session
	api      TokenRefresher
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher builds a stopped Refresher.
func NewRefresher(session *Session, api TokenRefresher, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{session: session, api: api, interval: interval}
}

// Start launches the refresh loop, replacing any loop already running. The
// loop ends when ctx is cancelled, the session logs out, or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	done := r.session.Done()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
			}
			if err := r.RefreshNow(loopCtx); err != nil {
				if loopCtx.Err() != nil {
					return
				}
				if errors.Is(err, ErrSessionChanged) {
					// A newer login owns the session now.
					log.Printf("token refresh: %v", err)
					continue
				}
				log.Printf("token refresh failed, logging out: %v", err)
				if err := r.session.Logout(); err != nil {
					log.Printf("logout failed: %v", err)
				}
				return
			}
		}
	}()
}

// Stop cancels the refresh loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// RefreshNow performs one refresh and stores the new access token. When the
// session was replaced while the request ran, neither the result nor a
// failure touches it and ErrSessionChanged is returned.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	refresh := r.session.RefreshToken()
	if refresh == "" {
		return ErrNoRefreshToken
	}
	access, err := r.api.RefreshToken(ctx, refresh)
	if err != nil {
		if r.session.RefreshToken() != refresh {
			return ErrSessionChanged
		}
		return fmt.Errorf("refresh token: %w", err)
	}
	return r.session.SetAccess(refresh, access)
}
