package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// LoginState reports whether requests can be authenticated.
type LoginState interface {
	LoggedIn() bool
}

// StartPoller launches a background goroutine that refreshes the store while
// the user is logged in. Consecutive failures stretch the wait up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, api pamp.API, login LoginState, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			if login.LoggedIn() {
				_ = Refresh(ctx, store, api)
			}
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}
	}()
}

// Refresh fetches everything the UI shows and stores it in one update. Any
// failure other than the Telegram status keeps the previous data.
func Refresh(ctx context.Context, store *state.Store, api pamp.API) error {
	var data state.Data
	var err error

	if data.MyPosts, err = api.FetchMyPosts(ctx); err != nil {
		return fail(store, "my posts", err)
	}
	if data.AllPosts, err = api.FetchAllPosts(ctx); err != nil {
		return fail(store, "all posts", err)
	}
	profile, err := api.FetchProfile(ctx)
	if err != nil {
		return fail(store, "profile", err)
	}
	data.Profile = &profile
	if data.Sessions, err = api.FetchTrainingSessions(ctx); err != nil {
		return fail(store, "training sessions", err)
	}

	// The bot may be disabled server side; the rest of the data is still good.
	if status, err := api.CheckTelegramLink(ctx); err != nil {
		log.Printf("telegram status poll failed: %v", err)
	} else {
		data.Telegram = &status
	}

	store.Update(data, nil)
	return nil
}

func fail(store *state.Store, what string, err error) error {
	err = fmt.Errorf("fetch %s: %w", what, err)
	store.Update(state.Data{}, err)
	log.Printf("poll failed: %v", err)
	return err
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
