package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/pampup/pamp/internal/pamp"
)

// Data is one complete fetch of the server state.
type Data struct {
	MyPosts  []pamp.Post
	AllPosts []pamp.Post
	Profile  *pamp.Profile
	Sessions []pamp.TrainingSession
	Telegram *pamp.TelegramLinkStatus
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	MyPosts             []pamp.Post
	AllPosts            []pamp.Post
	Profile             pamp.Profile
	HasProfile          bool
	Sessions            []pamp.TrainingSession
	TelegramLinked      bool
	HasTelegram         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Post finds a post by id in either list.
func (s Snapshot) Post(id int64) (pamp.Post, bool) {
	for _, list := range [][]pamp.Post{s.MyPosts, s.AllPosts} {
		for _, p := range list {
			if p.ID == id {
				return p, true
			}
		}
	}
	return pamp.Post{}, false
}

// Session finds a training session by id.
func (s Snapshot) Session(id int64) (pamp.TrainingSession, bool) {
	for _, ts := range s.Sessions {
		if ts.ID == id {
			return ts, true
		}
	}
	return pamp.TrainingSession{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored data. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(data Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.MyPosts = clonePosts(data.MyPosts)
	s.snapshot.AllPosts = clonePosts(data.AllPosts)
	s.snapshot.Sessions = cloneSessions(data.Sessions)
	if data.Profile != nil {
		s.snapshot.Profile = *data.Profile
		s.snapshot.HasProfile = true
	} else {
		s.snapshot.Profile = pamp.Profile{}
		s.snapshot.HasProfile = false
	}
	if data.Telegram != nil {
		s.snapshot.TelegramLinked = data.Telegram.Linked
		s.snapshot.HasTelegram = true
	} else {
		s.snapshot.HasTelegram = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// PutPost inserts or replaces one of the current user's posts after a save.
func (s *Store) PutPost(post pamp.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot.MyPosts {
		if s.snapshot.MyPosts[i].ID == post.ID {
			s.snapshot.MyPosts[i] = post
			return
		}
	}
	s.snapshot.MyPosts = append([]pamp.Post{post}, s.snapshot.MyPosts...)
}

// RemovePost drops a deleted post.
func (s *Store) RemovePost(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.MyPosts = withoutPost(s.snapshot.MyPosts, id)
	s.snapshot.AllPosts = withoutPost(s.snapshot.AllPosts, id)
}

// PutSession inserts or replaces a training session after a save.
func (s *Store) PutSession(ts pamp.TrainingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot.Sessions {
		if s.snapshot.Sessions[i].ID == ts.ID {
			s.snapshot.Sessions[i] = ts
			return
		}
	}
	s.snapshot.Sessions = append(s.snapshot.Sessions, ts)
}

// RemoveSession drops a deleted training session.
func (s *Store) RemoveSession(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pamp.TrainingSession, 0, len(s.snapshot.Sessions))
	for _, ts := range s.snapshot.Sessions {
		if ts.ID != id {
			out = append(out, ts)
		}
	}
	s.snapshot.Sessions = out
}

// SetProfile records a profile returned by an update.
func (s *Store) SetProfile(p pamp.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Profile = p
	s.snapshot.HasProfile = true
}

// SetTelegramLinked records the Telegram link status.
func (s *Store) SetTelegramLinked(linked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.TelegramLinked = linked
	s.snapshot.HasTelegram = true
}

// Clear forgets all data, used on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.MyPosts = clonePosts(s.snapshot.MyPosts)
	snap.AllPosts = clonePosts(s.snapshot.AllPosts)
	snap.Sessions = cloneSessions(s.snapshot.Sessions)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func withoutPost(posts []pamp.Post, id int64) []pamp.Post {
	out := make([]pamp.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func clonePosts(items []pamp.Post) []pamp.Post {
	if len(items) == 0 {
		return nil
	}
	dup := make([]pamp.Post, len(items))
	for i, p := range items {
		p.Images = append([]pamp.PostImage(nil), p.Images...)
		p.Videos = append([]pamp.PostVideo(nil), p.Videos...)
		dup[i] = p
	}
	return dup
}

func cloneSessions(items []pamp.TrainingSession) []pamp.TrainingSession {
	if len(items) == 0 {
		return nil
	}
	dup := make([]pamp.TrainingSession, len(items))
	copy(dup, items)
	return dup
}
