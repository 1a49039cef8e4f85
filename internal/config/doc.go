// Package config loads the pamp client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pamp/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Configuration Fields
//
//	server                 API address, default 127.0.0.1:8000
//	session_file           saved login, default ~/.local/state/pamp/session.toml
//	log_file               client log, default ~/.local/state/pamp/pamp.log
//	timezone               IANA zone for the calendar, default local time
//	horizon_weeks          weekly session expansion window, default 4
//	token_refresh_minutes  access token refresh period, default 15
//	poll_seconds           server refresh period, default 30
//	slot_hour              hour prefilled for new sessions, default 18
//	telegram_bot           reminder bot username, default reminder_training_bot
//	ics_export             calendar export file, default ~/pamp-sessions.ics
//
// Numeric fields are range checked; an out-of-range value is a load error
// rather than a silent default. Paths starting with ~ are expanded to the
// user's home directory and made absolute.
package config
