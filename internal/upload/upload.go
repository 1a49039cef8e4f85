package upload

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/pampup/pamp/internal/pamp"
)

// DefaultAvatarSide bounds the longer edge of an uploaded avatar.
const DefaultAvatarSide = 512

// DiskFile is a local file selected for upload. Its content type is detected
// from the file's leading bytes.
type DiskFile struct {
	path        string
	contentType string
	size        int64
}

var _ pamp.File = (*DiskFile)(nil)

// Open stats path and detects its content type. Directories are rejected.
func Open(path string) (*DiskFile, error) {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return &DiskFile{path: path, contentType: mt.String(), size: info.Size()}, nil
}

// OpenAll opens every path, collecting the failures instead of stopping.
func OpenAll(paths []string) ([]pamp.File, []error) {
	files := make([]pamp.File, 0, len(paths))
	var errs []error
	for _, p := range paths {
		f, err := Open(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	return files, errs
}

func (f *DiskFile) Name() string { return filepath.Base(f.path) }

func (f *DiskFile) ContentType() string { return f.contentType }

func (f *DiskFile) Path() string { return f.path }

func (f *DiskFile) Size() int64 { return f.size }

func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemFile is an in-memory upload, such as a re-encoded avatar.
type MemFile struct {
	name        string
	contentType string
	data        []byte
}

var _ pamp.File = (*MemFile)(nil)

func (f *MemFile) Name() string        { return f.name }
func (f *MemFile) ContentType() string { return f.contentType }
func (f *MemFile) Size() int64         { return int64(len(f.data)) }
func (f *MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// PrepareAvatar decodes the image at path, shrinks it so neither side exceeds
// maxSide and re-encodes it as JPEG.
func PrepareAvatar(path string, maxSide int) (*MemFile, error) {
	if maxSide <= 0 {
		maxSide = DefaultAvatarSide
	}
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(src.ContentType(), "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", src.Name(), src.ContentType())
	}
	img, err := imaging.Open(src.Path(), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Name(), err)
	}
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	name := strings.TrimSuffix(src.Name(), filepath.Ext(src.Name())) + ".jpg"
	return &MemFile{name: name, contentType: "image/jpeg", data: buf.Bytes()}, nil
}

// SplitPaths parses a pasted or dropped list of paths. Terminals deliver drops
// as whitespace separated paths with shell escaping or quoting, or as file://
// URIs.
func SplitPaths(text string) []string {
	var (
		out     []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			out = append(out, normalizePath(current.String()))
		}
		current.Reset()
		started = false
	}
	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	filtered := out[:0]
	for _, p := range out {
		if p != "" {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func normalizePath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	return expandHome(p)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
