package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pampup/pamp/internal/draft"
	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/prefs"
)

type postsState struct {
	scope     string // prefs.ScopeMine or prefs.ScopeAll
	selected  int
	searching bool
	query     string
	search    textinput.Model
}

func newPostsState(scope string) postsState {
	ti := textinput.New()
	ti.Placeholder = "title, training type or author"
	ti.CharLimit = 100
	ti.Prompt = "/"
	return postsState{scope: scope, search: ti}
}

// filterPosts keeps posts whose title, training type or author contains
// query, ignoring case. An empty query keeps everything.
func filterPosts(posts []pamp.Post, query string) []pamp.Post {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return posts
	}
	out := make([]pamp.Post, 0, len(posts))
	for _, p := range posts {
		haystack := strings.ToLower(p.Title + "\n" + p.TrainingType + "\n" + p.Profile.DisplayName())
		if strings.Contains(haystack, query) {
			out = append(out, p)
		}
	}
	return out
}

func (m Model) visiblePosts() []pamp.Post {
	list := m.snapshot.MyPosts
	if m.posts.scope == prefs.ScopeAll {
		list = m.snapshot.AllPosts
	}
	return filterPosts(list, m.posts.query)
}

func (m Model) selectedPost() (pamp.Post, bool) {
	list := m.visiblePosts()
	if len(list) == 0 {
		return pamp.Post{}, false
	}
	return list[clampIndex(m.posts.selected, len(list))], true
}

func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.visiblePosts())
	switch {
	case key.Matches(msg, m.keys.Up):
		m.posts.selected = clampIndex(m.posts.selected-1, count)
	case key.Matches(msg, m.keys.Down):
		m.posts.selected = clampIndex(m.posts.selected+1, count)
	case key.Matches(msg, m.keys.Top):
		m.posts.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.posts.selected = clampIndex(count-1, count)
	case key.Matches(msg, m.keys.ToggleScope):
		m.posts.scope = ternary(m.posts.scope == prefs.ScopeMine, prefs.ScopeAll, prefs.ScopeMine)
		m.posts.selected = 0
		m.savePrefs()
	case key.Matches(msg, m.keys.Search):
		m.posts.searching = true
		m.posts.search.SetValue(m.posts.query)
		return m, m.posts.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		m.posts.query = ""
		m.posts.selected = 0
	case key.Matches(msg, m.keys.NewPost):
		author := draft.Author{
			ProfileID: m.snapshot.Profile.ID,
			Username:  m.snapshot.Profile.DisplayName(),
			Avatar:    m.snapshot.Profile.Avatar,
		}
		m.modal = newEditorModal(m.ctx, m.api, draft.BeginCreate(author))
	case key.Matches(msg, m.keys.EditPost):
		post, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		if !m.ownsPost(post) {
			m.setNotice("Only your own posts can be edited", true)
			return m, nil
		}
		m.modal = newEditorModal(m.ctx, m.api, draft.BeginEdit(post))
	case key.Matches(msg, m.keys.DeletePost):
		post, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		if !m.ownsPost(post) {
			m.setNotice("Only your own posts can be deleted", true)
			return m, nil
		}
		m.modal = newConfirmModal("Delete post?",
			fmt.Sprintf("%q and its media will be removed.", truncate(post.Title, 40)),
			deletePostCmd(m.ctx, m.api, post.ID))
	}
	return m, nil
}

func (m Model) ownsPost(p pamp.Post) bool {
	for _, mine := range m.snapshot.MyPosts {
		if mine.ID == p.ID {
			return true
		}
	}
	return false
}

func (m Model) handlePostSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.posts.query = strings.TrimSpace(m.posts.search.Value())
		m.posts.searching = false
		m.posts.search.Blur()
		m.posts.selected = 0
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.posts.searching = false
		m.posts.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.posts.search, cmd = m.posts.search.Update(msg)
	// Filter as you type.
	m.posts.query = m.posts.search.Value()
	m.posts.selected = 0
	return m, cmd
}

func (m Model) renderPosts() string {
	height := m.contentHeight()
	list := m.renderPostList(height)
	if m.width < LayoutCompactWidth {
		return list
	}
	listW := int(float64(m.width) * LayoutListRatio)
	detail := m.renderPostDetail(m.width-listW, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (m Model) renderPostList(height int) string {
	styles := m.theme.Styles()
	width := m.width
	if m.width >= LayoutCompactWidth {
		width = int(float64(m.width) * LayoutListRatio)
	}
	inner := max(height-2, 1)
	posts := m.visiblePosts()

	var lines []string
	if m.posts.searching {
		lines = append(lines, m.posts.search.View())
		inner--
	} else if m.posts.query != "" {
		lines = append(lines, styles.AccentText.Render("/"+m.posts.query)+styles.FaintText.Render("  esc clears"))
		inner--
	}

	if len(posts) == 0 {
		lines = append(lines, styles.MutedText.Render(ternary(m.posts.scope == prefs.ScopeMine,
			"No posts yet. Press n to log a workout.", "Nothing from other athletes yet.")))
	}

	sel := clampIndex(m.posts.selected, len(posts))
	start := 0
	if sel >= inner {
		start = sel - inner + 1
	}
	for i := start; i < len(posts) && i < start+inner; i++ {
		p := posts[i]
		when := ""
		if t := p.ParsedCreatedAt(); !t.IsZero() {
			when = t.Local().Format("02 Jan")
		}
		titleW := max(width-22, 8)
		text := padRight(truncate(p.Title, titleW), titleW) + " " + padRight(truncate(p.TrainingType, 10), 10) + " " + when
		if i == sel {
			lines = append(lines, styles.Selected.Render(text))
		} else {
			lines = append(lines, styles.Text.Render(text))
		}
	}

	title := ternary(m.posts.scope == prefs.ScopeMine, "My posts", "Community")
	title += fmt.Sprintf(" (%d)", len(posts))
	return m.renderBox(title, strings.Join(lines, "\n"), width, height, true)
}

func (m Model) renderPostDetail(width, height int) string {
	styles := m.theme.Styles()
	post, ok := m.selectedPost()
	if !ok {
		return m.renderBox("Details", "", width, height, false)
	}

	textW := max(width-4, 10)
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(post.Title, textW)))
	b.WriteString("\n")
	meta := []string{}
	if name := post.Profile.DisplayName(); name != "" {
		meta = append(meta, "by "+name)
	}
	if post.TrainingType != "" {
		meta = append(meta, post.TrainingType)
	}
	if t := post.ParsedCreatedAt(); !t.IsZero() {
		meta = append(meta, t.Local().Format("2 Jan 2006 15:04"))
	}
	meta = append(meta, fmt.Sprintf("%d views", post.Views))
	b.WriteString(styles.MutedText.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if desc := strings.TrimSpace(post.Description); desc != "" {
		b.WriteString(lipgloss.NewStyle().Width(textW).Foreground(lipgloss.Color(m.theme.Text)).Render(desc))
		b.WriteString("\n\n")
	}

	for _, img := range post.Images {
		b.WriteString(m.theme.Badge("image", m.theme.Image) + " " +
			styles.MutedText.Render(truncateMiddle(img.Source(), textW-9)) + "\n")
	}
	for _, v := range post.Videos {
		label := v.Source()
		if id := draft.YouTubeID(label); id != "" {
			label = "youtube:" + id
		}
		b.WriteString(m.theme.Badge("video", m.theme.Video) + " " +
			styles.MutedText.Render(truncateMiddle(label, textW-9)) + "\n")
	}

	return m.renderBox("Details", b.String(), width, height, false)
}
