package upload

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode returned error: %v", err)
	}
}

func TestOpenDetectsContentType(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "photo.bin")
	writePNG(t, imgPath, 4, 4)
	textPath := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(textPath, []byte("just some notes\n"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	img, err := Open(imgPath)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if img.ContentType() != "image/png" {
		t.Fatalf("ContentType = %q, want image/png", img.ContentType())
	}
	if img.Name() != "photo.bin" || img.Size() == 0 {
		t.Fatalf("Name/Size = %q/%d", img.Name(), img.Size())
	}

	text, err := Open(textPath)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if !strings.HasPrefix(text.ContentType(), "text/plain") {
		t.Fatalf("ContentType = %q, want text/plain", text.ContentType())
	}

	if _, err := Open(dir); err == nil {
		t.Fatalf("Open(dir) returned nil error")
	}
	files, errs := OpenAll([]string{imgPath, filepath.Join(dir, "missing.jpg"), textPath})
	if len(files) != 2 || len(errs) != 1 {
		t.Fatalf("OpenAll = %d files, %d errors; want 2, 1", len(files), len(errs))
	}

	rc, err := img.Open()
	if err != nil {
		t.Fatalf("DiskFile.Open returned error: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if _, err := png.Decode(rc); err != nil {
		t.Fatalf("reopened file is not a png: %v", err)
	}
}

func TestPrepareAvatarDownscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, path, 1000, 500)

	avatar, err := PrepareAvatar(path, 200)
	if err != nil {
		t.Fatalf("PrepareAvatar returned error: %v", err)
	}
	if avatar.Name() != "big.jpg" || avatar.ContentType() != "image/jpeg" {
		t.Fatalf("avatar = %q %q", avatar.Name(), avatar.ContentType())
	}
	rc, _ := avatar.Open()
	data, _ := io.ReadAll(rc)
	cfg, err := jpeg.DecodeConfig(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("avatar is not a jpeg: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Fatalf("avatar size = %dx%d, want 200x100", cfg.Width, cfg.Height)
	}
}

func TestPrepareAvatarRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if _, err := PrepareAvatar(path, 0); err == nil {
		t.Fatalf("PrepareAvatar returned nil error for text")
	}
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/tmp/a.jpg", []string{"/tmp/a.jpg"}},
		{"/tmp/a.jpg /tmp/b.mp4", []string{"/tmp/a.jpg", "/tmp/b.mp4"}},
		{`/tmp/my\ clip.mp4`, []string{"/tmp/my clip.mp4"}},
		{`'/tmp/it is.png' "/tmp/x y.jpg"`, []string{"/tmp/it is.png", "/tmp/x y.jpg"}},
		{"file:///tmp/with%20space.png\nfile:///tmp/b.jpg", []string{"/tmp/with space.png", "/tmp/b.jpg"}},
		{"  \n ", nil},
	}
	for _, tc := range tests {
		got := SplitPaths(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitPaths(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
