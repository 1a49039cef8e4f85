// Package ui provides the pamp terminal interface.
//
// # Architecture Overview
//
// The interface is a single bubbletea Model. Screens are plain render
// functions over the Model's state and are never separate tea.Models. Dialogs
// (post editor, session dialog, confirmations) implement the small Modal
// interface and sit on top of the current screen until they close.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and Run
//   - commands.go: tea.Msg types and the tea.Cmds that talk to the server
//   - posts.go: post list, search and detail pane
//   - calendar.go: day grouped session agenda with free slots
//   - profile.go: account, avatar, Telegram linking and recent log problems
//   - login.go: password, Google and registration forms
//   - editor.go: create/edit post modal with media attachment
//   - session_dialog.go: create/edit/delete training session modal
//   - modal.go, layout.go, header.go, help.go: shared chrome
//   - keys.go, theme.go, strings.go: bindings, palettes and text helpers
//
// # Views
//
//   - Login: shown while no session is held
//   - Posts (1): own or everyone's posts, toggled with m
//   - Calendar (2): expanded sessions over the configured horizon
//   - Profile (3): account details and reminder bot link
//
// # Event Flow
//
//  1. Run builds the Model and starts the program on the alternate screen
//  2. A UI tick copies a state.Store snapshot into the Model
//  3. The background poller (package app) keeps the store fresh
//  4. Key presses go to the open modal first, then the active screen
//  5. Server calls run as tea.Cmds and report back with a result message
//  6. Result messages update the store at once, then reach the modal
//
// A session that ends on the server side (a refresh failure or a 401) closes
// the channel watched by waitLogoutCmd, which returns the UI to the login
// screen and clears cached data.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context: ctx,
//		API:     client,
//		Store:   store,
//		Session: session,
//		Config:  cfg,
//		Prefs:   userPrefs,
//		Refresh: func(ctx context.Context) error {
//			return app.Refresh(ctx, store, client)
//		},
//	})
//
// # Key Bindings
//
// Press ? for the full list. The common ones:
//
//   - 1/2/3: Posts, Calendar, Profile
//   - n: New post (Posts) or session at the selected slot (Calendar)
//   - e or Enter: Edit the selected item
//   - ctrl+s: Save in the editor and session dialog
//   - /: Search posts
//   - E: Export the calendar to an .ics file
//   - T: Cycle theme
//   - q or Ctrl+C: Exit
package ui
