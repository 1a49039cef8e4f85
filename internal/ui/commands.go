package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/auth"
	"github.com/pampup/pamp/internal/logtail"
	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/schedule"
	"github.com/pampup/pamp/internal/state"
	"github.com/pampup/pamp/internal/upload"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshedMsg struct{ err error }

type loggedInMsg struct {
	user pamp.User
	err  error
}

type registeredMsg struct {
	username string
	err      error
}

// loggedOutMsg is delivered once the session's Done channel closes.
type loggedOutMsg struct{}

type postSavedMsg struct {
	post    pamp.Post
	created bool
	err     error
}

type postDeletedMsg struct {
	id  int64
	err error
}

type sessionSavedMsg struct {
	session pamp.TrainingSession
	created bool
	err     error
}

type sessionDeletedMsg struct {
	id  int64
	err error
}

type profileSavedMsg struct {
	profile pamp.Profile
	err     error
}

type telegramCodeMsg struct {
	code string
	err  error
}

type telegramStatusMsg struct {
	linked bool
	err    error
}

type logProblemsMsg struct {
	entries []logtail.Entry
	err     error
}

type exportedMsg struct {
	path  string
	count int
	err   error
}

// Commands

// logTailLines bounds how much of the client log is scanned for problems.
const logTailLines = 400

// logPrefix matches the prefix the app passes to tea.LogToFile.
const logPrefix = "pamp"

func readLogCmd(path string, limit int) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logProblemsMsg{err: err}
		}
		return logProblemsMsg{entries: logtail.Problems(lines, logPrefix, limit)}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, refresh func(context.Context) error) tea.Cmd {
	if refresh == nil {
		return nil
	}
	return func() tea.Msg {
		return refreshedMsg{err: refresh(ctx)}
	}
}

// waitLogoutCmd captures the current Done channel so a later login does not
// satisfy it.
func waitLogoutCmd(session *auth.Session) tea.Cmd {
	done := session.Done()
	return func() tea.Msg {
		<-done
		return loggedOutMsg{}
	}
}

func logoutCmd(session *auth.Session) tea.Cmd {
	return func() tea.Msg {
		if err := session.Logout(); err != nil {
			log.Printf("logout: %v", err)
		}
		return nil
	}
}

func loginCmd(ctx context.Context, api pamp.API, session *auth.Session, creds pamp.Credentials) tea.Cmd {
	return func() tea.Msg {
		pair, err := api.ObtainToken(ctx, creds)
		if err != nil {
			return loggedInMsg{err: err}
		}
		user := pamp.User{Username: creds.Username}
		if err := session.Login(pair.Access, pair.Refresh, user); err != nil {
			return loggedInMsg{err: err}
		}
		// The token endpoint does not describe the user; the profile does.
		if profile, err := api.FetchProfile(ctx); err == nil {
			user = profile.User
			if err := session.SetUser(user); err != nil {
				log.Printf("save session user: %v", err)
			}
		}
		return loggedInMsg{user: user}
	}
}

func googleLoginCmd(ctx context.Context, api pamp.API, session *auth.Session, idToken string) tea.Cmd {
	return func() tea.Msg {
		res, err := api.GoogleLogin(ctx, idToken)
		if err != nil {
			return loggedInMsg{err: err}
		}
		if err := session.Login(res.AccessToken, res.RefreshToken, res.User); err != nil {
			return loggedInMsg{err: err}
		}
		return loggedInMsg{user: res.User}
	}
}

func registerCmd(ctx context.Context, api pamp.API, reg pamp.Registration) tea.Cmd {
	return func() tea.Msg {
		return registeredMsg{username: reg.Username, err: api.Register(ctx, reg)}
	}
}

func savePostCmd(ctx context.Context, api pamp.API, id int64, form pamp.PostForm) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			post, err := api.CreatePost(ctx, form)
			return postSavedMsg{post: post, created: true, err: err}
		}
		post, err := api.UpdatePost(ctx, id, form)
		return postSavedMsg{post: post, err: err}
	}
}

func deletePostCmd(ctx context.Context, api pamp.API, id int64) tea.Cmd {
	return func() tea.Msg {
		return postDeletedMsg{id: id, err: api.DeletePost(ctx, id)}
	}
}

func saveSessionCmd(ctx context.Context, api pamp.API, id int64, in pamp.TrainingSessionInput) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			ts, err := api.CreateTrainingSession(ctx, in)
			return sessionSavedMsg{session: ts, created: true, err: err}
		}
		ts, err := api.UpdateTrainingSession(ctx, id, in)
		return sessionSavedMsg{session: ts, err: err}
	}
}

func deleteSessionCmd(ctx context.Context, api pamp.API, id int64) tea.Cmd {
	return func() tea.Msg {
		return sessionDeletedMsg{id: id, err: api.DeleteTrainingSession(ctx, id)}
	}
}

// saveAvatarCmd uploads the image at path, or clears the avatar when path is empty.
func saveAvatarCmd(ctx context.Context, api pamp.API, path string) tea.Cmd {
	return func() tea.Msg {
		var form pamp.ProfileForm
		if path != "" {
			img, err := upload.PrepareAvatar(path, upload.DefaultAvatarSide)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			form.Avatar = img
		}
		profile, err := api.UpdateProfile(ctx, form)
		return profileSavedMsg{profile: profile, err: err}
	}
}

func linkTelegramCmd(ctx context.Context, api pamp.API) tea.Cmd {
	return func() tea.Msg {
		code, err := api.LinkTelegram(ctx)
		return telegramCodeMsg{code: code.Code, err: err}
	}
}

func checkTelegramCmd(ctx context.Context, api pamp.API) tea.Cmd {
	return func() tea.Msg {
		status, err := api.CheckTelegramLink(ctx)
		return telegramStatusMsg{linked: status.Linked, err: err}
	}
}

func exportICSCmd(path string, occ []schedule.Occurrence, name string) tea.Cmd {
	return func() tea.Msg {
		if err := schedule.ExportICS(path, occ, name, time.Now()); err != nil {
			return exportedMsg{path: path, err: fmt.Errorf("export calendar: %w", err)}
		}
		return exportedMsg{path: path, count: len(occ)}
	}
}
