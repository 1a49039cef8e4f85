// Package app is the composition root of pamp.
//
// # Overview
//
// Run loads configuration, points the standard logger at the log file,
// restores the saved login, builds the API client and the shared state store,
// starts the background workers and finally runs the TUI, which blocks until
// the user quits or the context is cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/pamp/config.toml
//	       ├─────> tea.LogToFile()      Log to ~/.local/state/pamp/pamp.log
//	       ├─────> auth.LoadSession()   Saved tokens, if any
//	       ├─────> pamp.NewClient()     HTTP client using the session's token
//	       ├─────> auth.Refresher       Renews the access token (logged in only)
//	       ├─────> StartPoller()        Background refresh of the store
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> skip while logged out              │
//	│  ├─> Refresh(): posts, profile,         │
//	│  │   training sessions, telegram status │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller waits poll_seconds (default 30) between refreshes. Each failed
// refresh doubles the wait, up to five minutes; a success resets it. Failures
// keep the previous data in the store and record the error, so the UI keeps
// rendering the last good state with an offline marker.
//
// The UI triggers an immediate Refresh after login and after saves, through
// the callback passed in ui.Options, instead of waiting for the next poll.
package app
