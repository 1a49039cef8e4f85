package draft

import (
	"strings"

	"github.com/pampup/pamp/internal/pamp"
)

// Field names a text field of the draft. The values match the form field names.
type Field string

const (
	Title        Field = pamp.FieldTitle
	TrainingType Field = pamp.FieldTrainingType
	Description  Field = pamp.FieldDescription
)

// Author is the denormalized owner shown in the editor header.
type Author struct {
	ProfileID int64
	Username  string
	Avatar    string
}

// Draft is the editable state of a post. Every method returns a new Draft and
// leaves its receiver untouched, so a failed save never loses the last value.
type Draft struct {
	ID           int64
	Title        string
	TrainingType string
	Description  string
	Images       []MediaRef
	Videos       []MediaRef
	Author       Author
}

// BeginCreate starts an empty draft for a new post.
func BeginCreate(author Author) Draft {
	return Draft{Author: author}
}

// BeginEdit loads a stored post. Every media row becomes an ExistingRemote ref.
// A post without an id yields an empty draft.
func BeginEdit(post pamp.Post) Draft {
	if post.ID == 0 {
		return Draft{}
	}
	d := Draft{
		ID:           post.ID,
		Title:        post.Title,
		TrainingType: post.TrainingType,
		Description:  post.Description,
		Author: Author{
			ProfileID: post.Profile.ID,
			Username:  post.Profile.DisplayName(),
			Avatar:    post.Profile.Avatar,
		},
	}
	if len(post.Images) > 0 {
		d.Images = make([]MediaRef, 0, len(post.Images))
		for _, img := range post.Images {
			d.Images = append(d.Images, Existing(Image, img.ID, img.Source()))
		}
	}
	if len(post.Videos) > 0 {
		d.Videos = make([]MediaRef, 0, len(post.Videos))
		for _, vid := range post.Videos {
			d.Videos = append(d.Videos, Existing(Video, vid.ID, vid.Source()))
		}
	}
	return d
}

// Reconcile replaces local state with the server's copy after a save. No
// local file handle survives.
func Reconcile(post pamp.Post) Draft {
	return BeginEdit(post)
}

// IsNew reports whether saving creates a post.
func (d Draft) IsNew() bool { return d.ID == 0 }

// SetField sets one text field. Unknown fields leave the draft unchanged.
func (d Draft) SetField(field Field, value string) Draft {
	next := d.clone()
	switch field {
	case Title:
		next.Title = value
	case TrainingType:
		next.TrainingType = value
	case Description:
		next.Description = value
	default:
		return d
	}
	return next
}

// Field returns the current value of a text field.
func (d Draft) Field(field Field) string {
	switch field {
	case Title:
		return d.Title
	case TrainingType:
		return d.TrainingType
	case Description:
		return d.Description
	default:
		return ""
	}
}

// AttachFiles appends files to the collection matching their declared content
// type. Files that are neither image/* nor video/* are returned unattached.
func (d Draft) AttachFiles(files []pamp.File) (Draft, []pamp.File) {
	next := d.clone()
	var rejected []pamp.File
	for _, f := range files {
		if f == nil {
			continue
		}
		contentType := strings.ToLower(strings.TrimSpace(f.ContentType()))
		switch {
		case strings.HasPrefix(contentType, "image/"):
			next.Images = append(next.Images, FromFile(Image, f))
		case strings.HasPrefix(contentType, "video/"):
			next.Videos = append(next.Videos, FromFile(Video, f))
		default:
			rejected = append(rejected, f)
		}
	}
	return next, rejected
}

// AttachURL appends a link to the given collection. Blank input is ignored.
func (d Draft) AttachURL(kind Kind, url string) Draft {
	url = strings.TrimSpace(url)
	if url == "" {
		return d
	}
	next := d.clone()
	switch kind {
	case Image:
		next.Images = append(next.Images, FromURL(Image, url))
	case Video:
		next.Videos = append(next.Videos, FromURL(Video, url))
	default:
		return d
	}
	return next
}

// Remove drops ref from the given collection by identity.
func (d Draft) Remove(kind Kind, ref MediaRef) Draft {
	next := d.clone()
	switch kind {
	case Image:
		next.Images = without(next.Images, ref)
	case Video:
		next.Videos = without(next.Videos, ref)
	}
	return next
}

// Media returns the collection for kind.
func (d Draft) Media(kind Kind) []MediaRef {
	if kind == Video {
		return d.Videos
	}
	return d.Images
}

// PendingFiles counts the local files that a save would upload.
func (d Draft) PendingFiles() int {
	n := 0
	for _, refs := range [][]MediaRef{d.Images, d.Videos} {
		for _, r := range refs {
			if r.origin == NewFile {
				n++
			}
		}
	}
	return n
}

// Submission builds the multipart payload. Stored media missing from the
// existing id lists is deleted by the server.
func (d Draft) Submission() pamp.PostForm {
	form := pamp.PostForm{
		Title:        d.Title,
		TrainingType: d.TrainingType,
		Description:  d.Description,
	}
	for _, r := range d.Images {
		switch r.origin {
		case ExistingRemote:
			form.ExistingImages = append(form.ExistingImages, r.id)
		case NewFile:
			form.Images = append(form.Images, r.file)
		case NewURL:
			form.ImageURLs = append(form.ImageURLs, r.url)
		}
	}
	for _, r := range d.Videos {
		switch r.origin {
		case ExistingRemote:
			form.ExistingVideos = append(form.ExistingVideos, r.id)
		case NewFile:
			form.Videos = append(form.Videos, r.file)
		case NewURL:
			form.VideoURLs = append(form.VideoURLs, r.url)
		}
	}
	return form
}

// Dirty reports whether d differs from base in text or media.
func (d Draft) Dirty(base Draft) bool {
	if d.Title != base.Title || d.TrainingType != base.TrainingType || d.Description != base.Description {
		return true
	}
	return !sameRefs(d.Images, base.Images) || !sameRefs(d.Videos, base.Videos)
}

func (d Draft) clone() Draft {
	next := d
	next.Images = append([]MediaRef(nil), d.Images...)
	next.Videos = append([]MediaRef(nil), d.Videos...)
	return next
}

func without(refs []MediaRef, ref MediaRef) []MediaRef {
	out := refs[:0]
	for _, r := range refs {
		if !r.Same(ref) {
			out = append(out, r)
		}
	}
	return out
}

func sameRefs(a, b []MediaRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Same(b[i]) {
			return false
		}
	}
	return true
}
