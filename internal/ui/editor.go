package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pampup/pamp/internal/draft"
	"github.com/pampup/pamp/internal/pamp"
	"github.com/pampup/pamp/internal/upload"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldTrainingType
	fieldDescription
	fieldImageURL
	fieldVideoURL
	fieldFiles
	fieldMedia
	editorFieldCount
)

const editorWidth = 72

// editorModal edits a draft.Draft. Text inputs write through to the draft on
// every keystroke; media is attached from the URL fields, the file path field,
// or by pasting (dropping) paths while the file field or media list is focused.
type editorModal struct {
	ctx context.Context
	api pamp.API

	base  draft.Draft
	draft draft.Draft

	focus        editorField
	title        textinput.Model
	trainingType textinput.Model
	description  textarea.Model
	imageURL     textinput.Model
	videoURL     textinput.Model
	files        textinput.Model
	mediaIdx     int

	busy         bool
	err          string
	notice       string
	discardArmed bool

	openFiles func([]string) ([]pamp.File, []error)
}

func newEditorModal(ctx context.Context, api pamp.API, d draft.Draft) editorModal {
	e := editorModal{
		ctx:       ctx,
		api:       api,
		base:      d,
		draft:     d,
		openFiles: upload.OpenAll,
	}
	e.title = newInput("What did you train?", 200)
	e.trainingType = newInput("e.g. strength, cardio, yoga", 100)
	e.imageURL = newInput("https://… then enter", 500)
	e.videoURL = newInput("YouTube or video link, then enter", 500)
	e.files = newInput("paths to images or videos, then enter", 0)

	e.description = textarea.New()
	e.description.Placeholder = "Description"
	e.description.ShowLineNumbers = false
	e.description.SetWidth(editorWidth - 16)
	e.description.SetHeight(5)

	e.syncInputs()
	e.focusField(fieldTitle)
	return e
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = editorWidth - 18
	return ti
}

func (e *editorModal) syncInputs() {
	e.title.SetValue(e.draft.Title)
	e.trainingType.SetValue(e.draft.TrainingType)
	e.description.SetValue(e.draft.Description)
}

func (e *editorModal) focusField(f editorField) {
	e.focus = f
	e.title.Blur()
	e.trainingType.Blur()
	e.description.Blur()
	e.imageURL.Blur()
	e.videoURL.Blur()
	e.files.Blur()
	switch f {
	case fieldTitle:
		e.title.Focus()
	case fieldTrainingType:
		e.trainingType.Focus()
	case fieldDescription:
		e.description.Focus()
	case fieldImageURL:
		e.imageURL.Focus()
	case fieldVideoURL:
		e.videoURL.Focus()
	case fieldFiles:
		e.files.Focus()
	}
}

// mediaRows lists images then videos, the order shown in the editor.
func (e editorModal) mediaRows() []draft.MediaRef {
	rows := make([]draft.MediaRef, 0, len(e.draft.Images)+len(e.draft.Videos))
	rows = append(rows, e.draft.Images...)
	return append(rows, e.draft.Videos...)
}

func (e editorModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case postSavedMsg:
		e.busy = false
		if msg.err != nil {
			e.err = pamp.Message(msg.err)
			return e, nil, false
		}
		e.draft = draft.Reconcile(msg.post)
		e.base = e.draft
		e.syncInputs()
		e.err = ""
		e.notice = "Saved"
		e.mediaIdx = clampIndex(e.mediaIdx, len(e.mediaRows()))
		return e, nil, false
	case tea.KeyMsg:
		return e.handleKey(msg, keys)
	}
	return e, nil, false
}

func (e editorModal) handleKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	// The response replaces the draft, so edits are held until it arrives.
	if e.busy {
		e.notice = "Wait for the save to finish"
		return e, nil, false
	}
	if msg.Paste && (e.focus == fieldFiles || e.focus == fieldMedia) {
		e.attachPaths(string(msg.Runes))
		return e, nil, false
	}

	switch {
	case key.Matches(msg, keys.Escape):
		if e.draft.Dirty(e.base) && !e.discardArmed {
			e.discardArmed = true
			e.notice = "Unsaved changes: press esc again to discard"
			return e, nil, false
		}
		return e, nil, true
	case key.Matches(msg, keys.Save):
		return e.save()
	case key.Matches(msg, keys.Tab):
		e.focusField((e.focus + 1) % editorFieldCount)
		return e, nil, false
	case key.Matches(msg, keys.ShiftTab):
		e.focusField((e.focus + editorFieldCount - 1) % editorFieldCount)
		return e, nil, false
	}
	e.discardArmed = false

	if key.Matches(msg, keys.Confirm) {
		switch e.focus {
		case fieldImageURL:
			e.draft = e.draft.AttachURL(draft.Image, e.imageURL.Value())
			e.imageURL.SetValue("")
			return e, nil, false
		case fieldVideoURL:
			e.draft = e.draft.AttachURL(draft.Video, e.videoURL.Value())
			e.videoURL.SetValue("")
			return e, nil, false
		case fieldFiles:
			e.attachPaths(e.files.Value())
			e.files.SetValue("")
			return e, nil, false
		}
	}

	var cmd tea.Cmd
	switch e.focus {
	case fieldTitle:
		e.title, cmd = e.title.Update(msg)
		e.draft = e.draft.SetField(draft.Title, e.title.Value())
	case fieldTrainingType:
		e.trainingType, cmd = e.trainingType.Update(msg)
		e.draft = e.draft.SetField(draft.TrainingType, e.trainingType.Value())
	case fieldDescription:
		e.description, cmd = e.description.Update(msg)
		e.draft = e.draft.SetField(draft.Description, e.description.Value())
	case fieldImageURL:
		e.imageURL, cmd = e.imageURL.Update(msg)
	case fieldVideoURL:
		e.videoURL, cmd = e.videoURL.Update(msg)
	case fieldFiles:
		e.files, cmd = e.files.Update(msg)
	case fieldMedia:
		e.handleMediaKey(msg, keys)
	}
	return e, cmd, false
}

func (e *editorModal) handleMediaKey(msg tea.KeyMsg, keys keyMap) {
	rows := e.mediaRows()
	switch {
	case key.Matches(msg, keys.Up):
		e.mediaIdx = clampIndex(e.mediaIdx-1, len(rows))
	case key.Matches(msg, keys.Down):
		e.mediaIdx = clampIndex(e.mediaIdx+1, len(rows))
	case key.Matches(msg, keys.RemoveMedia):
		if len(rows) == 0 {
			return
		}
		ref := rows[clampIndex(e.mediaIdx, len(rows))]
		e.draft = e.draft.Remove(ref.Kind(), ref)
		e.mediaIdx = clampIndex(e.mediaIdx, len(rows)-1)
	}
}

func (e editorModal) save() (Modal, tea.Cmd, bool) {
	if e.busy {
		return e, nil, false
	}
	e.busy = true
	e.err = ""
	e.notice = ""
	return e, savePostCmd(e.ctx, e.api, e.draft.ID, e.draft.Submission()), false
}

func (e *editorModal) attachPaths(text string) {
	paths := upload.SplitPaths(text)
	if len(paths) == 0 {
		return
	}
	files, openErrs := e.openFiles(paths)
	next, rejected := e.draft.AttachFiles(files)
	e.draft = next
	e.notice = attachNotice(len(files)-len(rejected), rejected, openErrs)
}

// attachNotice summarizes an attach attempt without blocking the editor.
func attachNotice(attached int, rejected []pamp.File, openErrs []error) string {
	var parts []string
	if attached > 0 {
		parts = append(parts, fmt.Sprintf("Attached %d %s", attached, ternary(attached == 1, "file", "files")))
	}
	if len(rejected) > 0 {
		names := make([]string, 0, len(rejected))
		for _, f := range rejected {
			names = append(names, f.Name())
		}
		parts = append(parts, "skipped "+strings.Join(names, ", ")+" (not an image or video)")
	}
	for _, err := range openErrs {
		parts = append(parts, err.Error())
	}
	if len(parts) == 0 {
		return "Nothing to attach"
	}
	return strings.Join(parts, "; ")
}

func (e editorModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	heading := "New post"
	if !e.draft.IsNew() {
		heading = fmt.Sprintf("Edit post #%d", e.draft.ID)
	}
	b.WriteString(styles.Text.Bold(true).Render(heading))
	if e.draft.Author.Username != "" {
		b.WriteString(styles.MutedText.Render("  by " + e.draft.Author.Username))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", editorWidth-6)))
	b.WriteString("\n\n")

	label := func(f editorField, text string) string {
		if e.focus == f {
			return styles.AccentText.Render(padRight(text, 14))
		}
		return styles.MutedText.Render(padRight(text, 14))
	}

	b.WriteString(label(fieldTitle, "Title") + e.title.View() + "\n")
	b.WriteString(label(fieldTrainingType, "Training type") + e.trainingType.View() + "\n\n")
	b.WriteString(label(fieldDescription, "Description") + "\n")
	b.WriteString(e.description.View() + "\n\n")
	b.WriteString(label(fieldImageURL, "Image URL") + e.imageURL.View() + "\n")
	b.WriteString(label(fieldVideoURL, "Video URL") + e.videoURL.View() + "\n")
	b.WriteString(label(fieldFiles, "Files") + e.files.View() + "\n\n")

	rows := e.mediaRows()
	b.WriteString(label(fieldMedia, fmt.Sprintf("Media (%d)", len(rows))))
	if pending := e.draft.PendingFiles(); pending > 0 {
		b.WriteString(styles.InfoText.Render(fmt.Sprintf("%d to upload", pending)))
	}
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(styles.FaintText.Render("  none; paste or drop files here"))
		b.WriteString("\n")
	}
	for i, ref := range rows {
		color := theme.Image
		if ref.Kind() == draft.Video {
			color = theme.Video
		}
		line := theme.Badge(ref.Kind().String(), color) + " " +
			styles.MutedText.Render(padRight(ref.Origin().String(), 9)) +
			styles.Text.Render(truncateMiddle(ref.Label(), editorWidth-28))
		if e.focus == fieldMedia && i == e.mediaIdx {
			line = styles.AccentText.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	switch {
	case e.busy:
		b.WriteString(styles.WarningText.Render("Saving…"))
	case e.err != "":
		b.WriteString(styles.DangerText.Render(e.err))
	case e.notice != "":
		b.WriteString(styles.InfoText.Render(e.notice))
	}
	b.WriteString("\n")
	b.WriteString(styles.Key.Render("ctrl+s") + styles.MutedText.Render(" save  ") +
		styles.Key.Render("tab") + styles.MutedText.Render(" next field  ") +
		styles.Key.Render("x") + styles.MutedText.Render(" remove media  ") +
		styles.Key.Render("esc") + styles.MutedText.Render(" close"))

	return placeModal(theme, b.String(), editorWidth, width, height)
}
