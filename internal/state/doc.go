// Package state provides thread-safe state management for pamp.
//
// # Overview
//
// The Store holds the latest copy of everything fetched from the server: the
// user's posts, everyone else's posts, the profile, training sessions and the
// Telegram link status. The background poller writes it; the UI reads
// snapshots of it on every tick.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Update, PutPost, RemovePost, PutSession, RemoveSession: write lock
//   - Snapshot: read lock, returns deep copies
//
// The lock is held only while copying, never during network I/O or rendering.
//
// # Update Semantics
//
//	// Success: replace all data
//	store.Update(data, nil)
//
//	// Failure: keep old data, record the error
//	store.Update(state.Data{}, err)
//
// A failed poll increments ConsecutiveFailures; two or more in a row mark the
// snapshot offline. The targeted Put/Remove methods apply the result of a save
// or delete immediately so the UI does not wait for the next poll.
//
// The zero Store is ready to use.
package state
