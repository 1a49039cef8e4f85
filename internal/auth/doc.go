// Package auth holds the logged-in session and keeps its access token fresh.
//
// Session is the single owner of the access token, refresh token and current
// user. It is persisted to a TOML file readable only by the owner so the
// terminal client stays logged in across restarts. Logging out deletes the
// file and closes the channel returned by Done, which stops the Refresher and
// returns the UI to the login view.
//
// Refresher renews the access token on a fixed interval (15 minutes by
// default). Any refresh failure logs the session out.
package auth
