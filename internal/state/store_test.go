package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pampup/pamp/internal/pamp"
)

func sampleData() Data {
	return Data{
		MyPosts:  []pamp.Post{{ID: 1, Title: "Mine", Images: []pamp.PostImage{{ID: 10}}}},
		AllPosts: []pamp.Post{{ID: 2, Title: "Theirs"}, {ID: 3}},
		Profile:  &pamp.Profile{ID: 4, User: pamp.User{Username: "ana"}},
		Sessions: []pamp.TrainingSession{{ID: 7, Date: "2025-03-03", Time: "18:00:00", Recurrence: "once"}},
		Telegram: &pamp.TelegramLinkStatus{Linked: true},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(sampleData(), nil)

	snap := s.Snapshot()
	if !snap.HasProfile || snap.Profile.DisplayName() != "ana" {
		t.Fatalf("snapshot profile = %#v, want ana", snap.Profile)
	}
	if len(snap.MyPosts) != 1 || len(snap.AllPosts) != 2 || len(snap.Sessions) != 1 {
		t.Fatalf("snapshot sizes = %d/%d/%d, want 1/2/1", len(snap.MyPosts), len(snap.AllPosts), len(snap.Sessions))
	}
	if !snap.HasTelegram || !snap.TelegramLinked {
		t.Fatalf("telegram = %v/%v, want linked", snap.HasTelegram, snap.TelegramLinked)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.MyPosts[0].Title = "changed"
	snap.MyPosts[0].Images[0].ID = 999
	snap.Sessions[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.MyPosts[0].Title != "Mine" || snap2.MyPosts[0].Images[0].ID != 10 {
		t.Fatalf("Snapshot should clone posts; got %#v", snap2.MyPosts[0])
	}
	if snap2.Sessions[0].ID != 7 {
		t.Fatalf("Snapshot should clone sessions; got id %d want 7", snap2.Sessions[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(sampleData(), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(Data{}, origErr)

	snap := s.Snapshot()
	if snap.HasProfile != prev.HasProfile || snap.Profile.ID != prev.Profile.ID {
		t.Fatalf("profile changed on error: got %#v want %#v", snap.Profile, prev.Profile)
	}
	if len(snap.MyPosts) != 1 || snap.MyPosts[0].ID != 1 {
		t.Fatalf("posts changed on error: got %#v", snap.MyPosts)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	tests := []struct {
		failures int
		offline  bool
	}{
		{1, false},
		{2, true},
		{3, true},
	}
	for _, tc := range tests {
		s.Update(Data{}, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != tc.failures {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, tc.failures)
		}
		if snap.IsOffline() != tc.offline {
			t.Fatalf("IsOffline() = %v, want %v with %d failures", snap.IsOffline(), tc.offline, tc.failures)
		}
	}

	// Success resets counter
	s.Update(Data{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_TargetedMutations(t *testing.T) {
	var s Store
	s.Update(sampleData(), nil)

	s.PutPost(pamp.Post{ID: 1, Title: "Edited"})
	s.PutPost(pamp.Post{ID: 5, Title: "New"})
	snap := s.Snapshot()
	if len(snap.MyPosts) != 2 || snap.MyPosts[0].ID != 5 || snap.MyPosts[1].Title != "Edited" {
		t.Fatalf("MyPosts = %#v", snap.MyPosts)
	}
	if p, ok := snap.Post(2); !ok || p.Title != "Theirs" {
		t.Fatalf("Post(2) = %#v, %v", p, ok)
	}

	s.RemovePost(5)
	s.RemovePost(2)
	snap = s.Snapshot()
	if _, ok := snap.Post(5); ok {
		t.Fatalf("removed post 5 still present")
	}
	if len(snap.AllPosts) != 1 {
		t.Fatalf("AllPosts = %#v, want one", snap.AllPosts)
	}

	s.PutSession(pamp.TrainingSession{ID: 7, Recurrence: "weekly"})
	s.PutSession(pamp.TrainingSession{ID: 8, Recurrence: "once"})
	s.RemoveSession(8)
	snap = s.Snapshot()
	if ts, ok := snap.Session(7); !ok || ts.Recurrence != "weekly" || len(snap.Sessions) != 1 {
		t.Fatalf("Sessions = %#v", snap.Sessions)
	}

	s.SetTelegramLinked(false)
	s.SetProfile(pamp.Profile{ID: 4, Avatar: "/media/a.jpg"})
	snap = s.Snapshot()
	if snap.TelegramLinked || snap.Profile.Avatar != "/media/a.jpg" {
		t.Fatalf("telegram/profile = %v/%#v", snap.TelegramLinked, snap.Profile)
	}

	s.Clear()
	snap = s.Snapshot()
	if snap.HasProfile || len(snap.MyPosts) != 0 || len(snap.Sessions) != 0 {
		t.Fatalf("Clear left data: %#v", snap)
	}
}
