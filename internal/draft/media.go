package draft

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pampup/pamp/internal/pamp"
)

// Kind is the media collection a ref belongs to.
type Kind int

const (
	Image Kind = iota
	Video
)

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// Origin records where a ref's content comes from.
type Origin int

const (
	// ExistingRemote is a media row already stored on the server.
	ExistingRemote Origin = iota
	// NewFile is a local file selected during this edit.
	NewFile
	// NewURL is a link entered during this edit.
	NewURL
)

func (o Origin) String() string {
	switch o {
	case ExistingRemote:
		return "existing"
	case NewFile:
		return "file"
	case NewURL:
		return "url"
	default:
		return "unknown"
	}
}

// MediaRef is one attachment of a draft. The zero value is not a valid ref;
// build refs with Existing, FromFile or FromURL.
type MediaRef struct {
	key    uuid.UUID
	kind   Kind
	origin Origin

	id     int64
	remote string
	file   pamp.File
	url    string
}

// Existing references a media row stored on the server.
func Existing(kind Kind, id int64, remote string) MediaRef {
	return MediaRef{key: uuid.New(), kind: kind, origin: ExistingRemote, id: id, remote: remote}
}

// FromFile references a local file to upload.
func FromFile(kind Kind, file pamp.File) MediaRef {
	return MediaRef{key: uuid.New(), kind: kind, origin: NewFile, file: file}
}

// FromURL references a link to submit as-is.
func FromURL(kind Kind, url string) MediaRef {
	return MediaRef{key: uuid.New(), kind: kind, origin: NewURL, url: url}
}

// Key is the client-side identity used for removal.
func (r MediaRef) Key() uuid.UUID { return r.key }

func (r MediaRef) Kind() Kind { return r.kind }

func (r MediaRef) Origin() Origin { return r.origin }

// ID returns the server id; ok is false unless the ref is ExistingRemote.
func (r MediaRef) ID() (id int64, ok bool) {
	if r.origin != ExistingRemote {
		return 0, false
	}
	return r.id, true
}

// Remote returns the URL or stored path of an ExistingRemote ref.
func (r MediaRef) Remote() string { return r.remote }

// File returns the local handle of a NewFile ref, or nil.
func (r MediaRef) File() pamp.File { return r.file }

// URL returns the entered link of a NewURL ref.
func (r MediaRef) URL() string { return r.url }

// Same reports whether both values are the same ref.
func (r MediaRef) Same(other MediaRef) bool {
	return r.key != uuid.Nil && r.key == other.key
}

// Label is a one-line description for lists.
func (r MediaRef) Label() string {
	switch r.origin {
	case ExistingRemote:
		if r.kind == Video {
			if id := YouTubeID(r.remote); id != "" {
				return "youtube:" + id
			}
		}
		return path.Base(strings.TrimRight(r.remote, "/"))
	case NewFile:
		if r.file == nil {
			return ""
		}
		return path.Base(r.file.Name())
	case NewURL:
		if r.kind == Video {
			if id := YouTubeID(r.url); id != "" {
				return "youtube:" + id
			}
		}
		return r.url
	default:
		return ""
	}
}
