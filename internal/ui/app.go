package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/auth"
	"github.com/pampup/pamp/internal/config"
	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/prefs"
	"github.com/pampup/pamp/internal/state"
)

// View identifies the current screen.
type View int

const (
	ViewLogin View = iota
	ViewPosts
	ViewCalendar
	ViewProfile
)

// DefaultUIInterval is how often the UI re-reads the store.
const DefaultUIInterval = time.Second

// Options configure the UI.
type Options struct {
	Context   context.Context
	API       pamp.API
	Store     *state.Store
	Session   *auth.Session
	Refresher *auth.Refresher
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	// Refresh fetches everything into Store immediately.
	Refresh func(context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for pamp.
type Model struct {
	ctx       context.Context
	api       pamp.API
	store     *state.Store
	session   *auth.Session
	refresher *auth.Refresher
	config    config.Config
	prefs     prefs.Prefs
	prefsPath string
	uiTick    time.Duration
	refresh   func(context.Context) error
	now       func() time.Time

	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	snapshot    state.Snapshot

	login    loginState
	posts    postsState
	calendar calendarState
	profile  profileState
	modal    Modal

	notice    string
	noticeErr bool
}

// New creates a new Model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	session := opts.Session
	if session == nil {
		session = auth.NewSession("")
	}
	cfg := opts.Config
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	uiTick := DefaultUIInterval
	if opts.PollTick > 0 && opts.PollTick < uiTick {
		uiTick = opts.PollTick
	}

	m := Model{
		ctx:       ctx,
		api:       opts.API,
		store:     opts.Store,
		session:   session,
		refresher: opts.Refresher,
		config:    cfg,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		uiTick:    uiTick,
		refresh:   opts.Refresh,
		now:       now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		login:     newLoginState(),
		posts:     newPostsState(opts.Prefs.PostsScope),
		profile:   newProfileState(),
	}
	if m.store == nil {
		m.store = &state.Store{}
	}

	m.currentView = ViewLogin
	if session.LoggedIn() {
		m.currentView = viewFromPref(opts.Prefs.View)
	}
	return m
}

func viewFromPref(v string) View {
	switch v {
	case prefs.ViewCalendar:
		return ViewCalendar
	case prefs.ViewProfile:
		return ViewProfile
	default:
		return ViewPosts
	}
}

func prefFromView(v View) string {
	switch v {
	case ViewCalendar:
		return prefs.ViewCalendar
	case ViewProfile:
		return prefs.ViewProfile
	default:
		return prefs.ViewPosts
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.uiTick),
		fetchSnapshotCmd(m.store),
	}
	if m.session.LoggedIn() {
		cmds = append(cmds, waitLogoutCmd(m.session), refreshCmd(m.ctx, m.refresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.uiTick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.rebuildCalendar()
		m.posts.selected = clampIndex(m.posts.selected, len(m.visiblePosts()))
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.setNotice(pamp.Message(msg.err), true)
		}
		if m.currentView == ViewProfile {
			return m, tea.Batch(fetchSnapshotCmd(m.store), readLogCmd(m.config.LogFile, profileProblemLimit))
		}
		return m, fetchSnapshotCmd(m.store)

	case loggedInMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = pamp.Message(msg.err)
			return m, nil
		}
		m.login = newLoginState()
		m.currentView = viewFromPref(m.prefs.View)
		m.setNotice("Welcome, "+msg.user.Username, false)
		if m.refresher != nil {
			m.refresher.Start(m.ctx)
		}
		return m, tea.Batch(waitLogoutCmd(m.session), refreshCmd(m.ctx, m.refresh))

	case registeredMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = pamp.Message(msg.err)
			return m, nil
		}
		username := msg.username
		m.login = newLoginState()
		m.login.inputs[inUsername].SetValue(username)
		m.login.focusInput(1)
		m.login.notice = "Account created. Log in to continue."
		return m, nil

	case loggedOutMsg:
		if m.session.LoggedIn() {
			// A newer login superseded this one.
			return m, nil
		}
		m.store.Clear()
		m.snapshot = state.Snapshot{}
		m.modal = nil
		m.profile = newProfileState()
		m.currentView = ViewLogin
		m.login.notice = "You have been logged out."
		return m, nil

	case postSavedMsg:
		if msg.err == nil {
			m.store.PutPost(msg.post)
			m.setNotice(ternary(msg.created, "Post created", "Post saved"), false)
		}
		return m.forwardToModal(msg, fetchSnapshotCmd(m.store))

	case postDeletedMsg:
		if msg.err != nil {
			m.setNotice("Delete failed: "+pamp.Message(msg.err), true)
			return m, nil
		}
		m.store.RemovePost(msg.id)
		m.setNotice("Post deleted", false)
		return m, fetchSnapshotCmd(m.store)

	case sessionSavedMsg:
		if msg.err == nil {
			m.store.PutSession(msg.session)
			m.setNotice(ternary(msg.created, "Session added", "Session updated"), false)
		}
		return m.forwardToModal(msg, fetchSnapshotCmd(m.store))

	case sessionDeletedMsg:
		if msg.err == nil {
			m.store.RemoveSession(msg.id)
			m.setNotice("Session deleted", false)
		}
		return m.forwardToModal(msg, fetchSnapshotCmd(m.store))

	case profileSavedMsg:
		m.profile.busy = false
		if msg.err != nil {
			m.setNotice("Avatar not saved: "+pamp.Message(msg.err), true)
			return m, nil
		}
		m.store.SetProfile(msg.profile)
		m.setNotice("Profile updated", false)
		return m, fetchSnapshotCmd(m.store)

	case telegramCodeMsg:
		if msg.err != nil {
			m.setNotice("Telegram link failed: "+pamp.Message(msg.err), true)
			return m, nil
		}
		link, qr, err := telegramLink(m.config.TelegramBot, msg.code)
		if err != nil {
			log.Printf("telegram link: %v", err)
		}
		m.profile.link = link
		m.profile.qr = qr
		m.setNotice("Send /start to the bot, then press c", false)
		return m, nil

	case telegramStatusMsg:
		if msg.err != nil {
			m.setNotice(pamp.Message(msg.err), true)
			return m, nil
		}
		m.store.SetTelegramLinked(msg.linked)
		if msg.linked {
			m.profile.link, m.profile.qr = "", ""
		}
		m.setNotice(ternary(msg.linked, "Telegram linked", "Not linked yet"), !msg.linked)
		return m, fetchSnapshotCmd(m.store)

	case logProblemsMsg:
		if msg.err != nil {
			log.Printf("read client log: %v", msg.err)
			return m, nil
		}
		m.profile.problems = msg.entries
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
			return m, nil
		}
		m.setNotice(fmt.Sprintf("Exported %d sessions to %s", msg.count, msg.path), false)
		return m, nil
	}

	return m.forwardToModal(msg, nil)
}

// forwardToModal lets the open modal see msg, closing it when it asks.
func (m Model) forwardToModal(msg tea.Msg, extra tea.Cmd) (tea.Model, tea.Cmd) {
	if m.modal == nil {
		return m, extra
	}
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = next
	}
	return m, tea.Batch(extra, cmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// Modals and text inputs take every other key.
	if m.modal != nil {
		return m.forwardToModal(msg, nil)
	}
	if m.currentView == ViewLogin {
		return m.handleLoginKey(msg)
	}
	if m.posts.searching && m.currentView == ViewPosts {
		return m.handlePostSearchKey(msg)
	}
	if m.profile.editingAvatar && m.currentView == ViewProfile {
		return m.handleAvatarInput(msg)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.setNotice("Refreshing…", false)
		return m, refreshCmd(m.ctx, m.refresh)
	case key.Matches(msg, m.keys.ViewPosts):
		return m.switchView(ViewPosts)
	case key.Matches(msg, m.keys.ViewCalendar):
		return m.switchView(ViewCalendar)
	case key.Matches(msg, m.keys.ViewProfile):
		return m.switchView(ViewProfile)
	}

	switch m.currentView {
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	default:
		return m.handlePostsKey(msg)
	}
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.notice = ""
	m.savePrefs()
	if v == ViewProfile {
		return m, readLogCmd(m.config.LogFile, profileProblemLimit)
	}
	return m, nil
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = strings.TrimSpace(text)
	m.noticeErr = isErr
}

// savePrefs persists theme, view and post scope; failures only get logged.
func (m *Model) savePrefs() {
	m.prefs.Theme = m.theme.Name
	if m.currentView != ViewLogin {
		m.prefs.View = prefFromView(m.currentView)
	}
	m.prefs.PostsScope = m.posts.scope
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// renderMain renders the header, command bar, content and notice line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewCalendar:
		return m.renderCalendar()
	case ViewProfile:
		return m.renderProfile()
	default:
		return m.renderPosts()
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Interrupted by a signal; not a failure.
		return nil
	}
	return err
}
