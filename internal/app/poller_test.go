package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 60, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// fakeAPI serves the read endpoints the poller uses. Calling anything else
// panics on the nil embedded interface.
type fakeAPI struct {
	pamp.API
	calls       int
	sessionsErr error
	telegramErr error
}

func (f *fakeAPI) FetchMyPosts(context.Context) ([]pamp.Post, error) {
	f.calls++
	return []pamp.Post{{ID: 1, Title: "Mine"}}, nil
}

func (f *fakeAPI) FetchAllPosts(context.Context) ([]pamp.Post, error) {
	return []pamp.Post{{ID: 2}, {ID: 3}}, nil
}

func (f *fakeAPI) FetchProfile(context.Context) (pamp.Profile, error) {
	return pamp.Profile{ID: 9, Username: "ana"}, nil
}

func (f *fakeAPI) FetchTrainingSessions(context.Context) ([]pamp.TrainingSession, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return []pamp.TrainingSession{{ID: 4, Date: "2025-03-03", Time: "18:00:00", Recurrence: "once"}}, nil
}

func (f *fakeAPI) CheckTelegramLink(context.Context) (pamp.TelegramLinkStatus, error) {
	if f.telegramErr != nil {
		return pamp.TelegramLinkStatus{}, f.telegramErr
	}
	return pamp.TelegramLinkStatus{Linked: true}, nil
}

func TestRefresh_StoresEverything(t *testing.T) {
	store := &state.Store{}
	if err := Refresh(context.Background(), store, &fakeAPI{}); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.MyPosts) != 1 || len(snap.AllPosts) != 2 || len(snap.Sessions) != 1 {
		t.Fatalf("snapshot sizes = %d/%d/%d, want 1/2/1", len(snap.MyPosts), len(snap.AllPosts), len(snap.Sessions))
	}
	if !snap.HasProfile || snap.Profile.ID != 9 {
		t.Fatalf("profile = %#v, want id 9", snap.Profile)
	}
	if !snap.HasTelegram || !snap.TelegramLinked {
		t.Fatalf("telegram = %v/%v, want linked", snap.HasTelegram, snap.TelegramLinked)
	}
}

func TestRefresh_FailureKeepsPreviousData(t *testing.T) {
	store := &state.Store{}
	api := &fakeAPI{}
	if err := Refresh(context.Background(), store, api); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	api.sessionsErr = errors.New("connection refused")
	err := Refresh(context.Background(), store, api)
	if err == nil || !strings.Contains(err.Error(), "fetch training sessions") {
		t.Fatalf("Refresh error = %v, want fetch training sessions error", err)
	}
	snap := store.Snapshot()
	if len(snap.Sessions) != 1 || snap.ConsecutiveFailures != 1 {
		t.Fatalf("sessions=%d failures=%d, want 1/1", len(snap.Sessions), snap.ConsecutiveFailures)
	}
}

func TestRefresh_TelegramFailureIsNotFatal(t *testing.T) {
	store := &state.Store{}
	api := &fakeAPI{telegramErr: errors.New("bot disabled")}
	if err := Refresh(context.Background(), store, api); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if snap.HasTelegram || snap.LastError != nil {
		t.Fatalf("HasTelegram=%v LastError=%v, want false/nil", snap.HasTelegram, snap.LastError)
	}
}

type loginFlag bool

func (l loginFlag) LoggedIn() bool { return bool(l) }

func TestStartPoller_SkipsWhileLoggedOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	api := &fakeAPI{}
	StartPoller(ctx, store, api, loginFlag(false), time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()

	if snap := store.Snapshot(); !snap.LastUpdated.IsZero() {
		t.Fatalf("store updated while logged out: %#v", snap)
	}
}

func TestStartPoller_RefreshesWhileLoggedIn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	StartPoller(ctx, store, &fakeAPI{}, loginFlag(true), time.Hour)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := store.Snapshot(); !snap.LastUpdated.IsZero() {
			if len(snap.MyPosts) != 1 {
				t.Fatalf("MyPosts = %#v, want one", snap.MyPosts)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("poller never refreshed the store")
}
