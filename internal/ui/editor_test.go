package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/draft"
	"github.com/pampup/pamp/internal/pamp"
)

type stubFile struct {
	name        string
	contentType string
}

func (f stubFile) Name() string        { return f.name }
func (f stubFile) ContentType() string { return f.contentType }
func (f stubFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestEditor(d draft.Draft) editorModal {
	return newEditorModal(context.Background(), nil, d)
}

func TestEditor_TypingWritesThroughToDraft(t *testing.T) {
	keys := DefaultKeyMap()
	var modal Modal = newTestEditor(draft.BeginCreate(draft.Author{Username: "ana"}))

	for _, r := range "Leg day" {
		modal, _, _ = modal.Update(keyRunes(string(r)), keys)
	}
	e := modal.(editorModal)
	if e.draft.Title != "Leg day" {
		t.Fatalf("draft.Title = %q, want %q", e.draft.Title, "Leg day")
	}
	if !e.draft.Dirty(e.base) {
		t.Fatalf("draft should be dirty after typing")
	}
}

func TestEditor_SecondSaveWhileBusyIsIgnored(t *testing.T) {
	keys := DefaultKeyMap()
	save := tea.KeyMsg{Type: tea.KeyCtrlS}
	var modal Modal = newTestEditor(draft.BeginCreate(draft.Author{}))

	modal, cmd, closed := modal.Update(save, keys)
	if cmd == nil || closed {
		t.Fatalf("first save: cmd=%v closed=%v, want a request and open editor", cmd, closed)
	}
	if !modal.(editorModal).busy {
		t.Fatalf("editor should be busy after save")
	}

	modal, cmd, closed = modal.Update(save, keys)
	if cmd != nil || closed {
		t.Fatalf("second save: cmd=%v closed=%v, want nothing", cmd, closed)
	}
	if got := modal.(editorModal).notice; got != "Wait for the save to finish" {
		t.Fatalf("notice = %q", got)
	}
}

func TestEditor_SavedMessageReconcilesDraft(t *testing.T) {
	keys := DefaultKeyMap()
	e := newTestEditor(draft.BeginCreate(draft.Author{}))
	e.draft = e.draft.SetField(draft.Title, "Run")
	e.busy = true

	post := pamp.Post{
		ID:     9,
		Title:  "Run",
		Images: []pamp.PostImage{{ID: 3, Image: "/media/a.jpg"}},
	}
	modal, cmd, closed := e.Update(postSavedMsg{post: post, created: true}, keys)
	if cmd != nil || closed {
		t.Fatalf("cmd=%v closed=%v, want editor to stay open", cmd, closed)
	}
	got := modal.(editorModal)
	if got.busy || got.notice != "Saved" || got.err != "" {
		t.Fatalf("busy=%v notice=%q err=%q", got.busy, got.notice, got.err)
	}
	if got.draft.ID != 9 || len(got.draft.Images) != 1 {
		t.Fatalf("draft = %#v, want server copy", got.draft)
	}
	if got.draft.Dirty(got.base) {
		t.Fatalf("reconciled draft should match its base")
	}
}

func TestEditor_FailedSaveKeepsDraft(t *testing.T) {
	keys := DefaultKeyMap()
	e := newTestEditor(draft.BeginCreate(draft.Author{}))
	e.draft = e.draft.SetField(draft.Title, "Swim")
	e.busy = true

	modal, _, closed := e.Update(postSavedMsg{err: errors.New("title too long")}, keys)
	got := modal.(editorModal)
	if closed || got.busy {
		t.Fatalf("closed=%v busy=%v, want open and idle", closed, got.busy)
	}
	if got.draft.Title != "Swim" || got.err == "" {
		t.Fatalf("draft.Title=%q err=%q, want kept title and an error", got.draft.Title, got.err)
	}
}

func TestEditor_EscapeAsksBeforeDiscarding(t *testing.T) {
	keys := DefaultKeyMap()
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	var clean Modal = newTestEditor(draft.BeginCreate(draft.Author{}))
	if _, _, closed := clean.Update(esc, keys); !closed {
		t.Fatalf("esc on a clean draft should close")
	}

	var modal Modal = newTestEditor(draft.BeginCreate(draft.Author{}))
	modal, _, _ = modal.Update(keyRunes("x"), keys)
	modal, _, closed := modal.Update(esc, keys)
	if closed {
		t.Fatalf("first esc on a dirty draft should not close")
	}
	if _, _, closed = modal.Update(esc, keys); !closed {
		t.Fatalf("second esc should close")
	}
}

func TestEditor_AttachPathsReportsRejected(t *testing.T) {
	e := newTestEditor(draft.BeginCreate(draft.Author{}))
	e.openFiles = func(paths []string) ([]pamp.File, []error) {
		return []pamp.File{
			stubFile{name: "a.jpg", contentType: "image/jpeg"},
			stubFile{name: "notes.txt", contentType: "text/plain"},
		}, []error{errors.New("open missing.mp4: no such file")}
	}

	e.attachPaths("a.jpg notes.txt missing.mp4")
	if len(e.draft.Images) != 1 || len(e.draft.Videos) != 0 {
		t.Fatalf("images=%d videos=%d, want 1/0", len(e.draft.Images), len(e.draft.Videos))
	}
	want := "Attached 1 file; skipped notes.txt (not an image or video); open missing.mp4: no such file"
	if e.notice != want {
		t.Fatalf("notice = %q, want %q", e.notice, want)
	}
}

func TestAttachNotice(t *testing.T) {
	tests := []struct {
		name     string
		attached int
		rejected []pamp.File
		want     string
	}{
		{"nothing", 0, nil, "Nothing to attach"},
		{"plural", 2, nil, "Attached 2 files"},
		{"only rejected", 0, []pamp.File{stubFile{name: "a.pdf"}, stubFile{name: "b.zip"}}, "skipped a.pdf, b.zip (not an image or video)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := attachNotice(tc.attached, tc.rejected, nil); got != tc.want {
				t.Fatalf("attachNotice = %q, want %q", got, tc.want)
			}
		})
	}
}
