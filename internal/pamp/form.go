package pamp

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
)

// File is a local file queued for upload. Implementations must allow Open to be
// called more than once so a failed submission can be retried.
type File interface {
	Name() string
	ContentType() string
	Open() (io.ReadCloser, error)
}

// Multipart field names understood by the posts endpoint.
const (
	FieldTitle          = "title"
	FieldTrainingType   = "training_type"
	FieldDescription    = "description"
	FieldExistingImages = "existing_images"
	FieldExistingVideos = "existing_videos"
	FieldImages         = "images"
	FieldVideos         = "videos"
	FieldImageURLs      = "image_urls"
	FieldVideoURLs      = "video_urls"
	FieldAvatar         = "avatar"
)

// PostForm is the multipart payload of a post create or update.
//
// Media rows of the stored post whose ids are missing from ExistingImages or
// ExistingVideos are deleted by the server.
type PostForm struct {
	Title        string
	TrainingType string
	Description  string

	ExistingImages []int64
	ExistingVideos []int64

	Images []File
	Videos []File

	ImageURLs []string
	VideoURLs []string
}

// Encode writes the form fields in submission order.
func (f PostForm) Encode(w *multipart.Writer) error {
	fields := []struct{ name, value string }{
		{FieldTitle, f.Title},
		{FieldTrainingType, f.TrainingType},
		{FieldDescription, f.Description},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return fmt.Errorf("write %s: %w", field.name, err)
		}
	}
	if err := writeIDs(w, FieldExistingImages, f.ExistingImages); err != nil {
		return err
	}
	if err := writeIDs(w, FieldExistingVideos, f.ExistingVideos); err != nil {
		return err
	}
	for _, file := range f.Images {
		if err := writeFile(w, FieldImages, file); err != nil {
			return err
		}
	}
	for _, u := range f.ImageURLs {
		if err := w.WriteField(FieldImageURLs, u); err != nil {
			return fmt.Errorf("write %s: %w", FieldImageURLs, err)
		}
	}
	for _, file := range f.Videos {
		if err := writeFile(w, FieldVideos, file); err != nil {
			return err
		}
	}
	for _, u := range f.VideoURLs {
		if err := w.WriteField(FieldVideoURLs, u); err != nil {
			return fmt.Errorf("write %s: %w", FieldVideoURLs, err)
		}
	}
	return nil
}

// ProfileForm updates the current profile. A nil Avatar clears the avatar.
type ProfileForm struct {
	Avatar File
}

// Encode writes the avatar part, or an empty avatar field when clearing.
func (f ProfileForm) Encode(w *multipart.Writer) error {
	if f.Avatar == nil {
		if err := w.WriteField(FieldAvatar, ""); err != nil {
			return fmt.Errorf("write %s: %w", FieldAvatar, err)
		}
		return nil
	}
	return writeFile(w, FieldAvatar, f.Avatar)
}

func writeIDs(w *multipart.Writer, field string, ids []int64) error {
	for _, id := range ids {
		if err := w.WriteField(field, strconv.FormatInt(id, 10)); err != nil {
			return fmt.Errorf("write %s: %w", field, err)
		}
	}
	return nil
}

func writeFile(w *multipart.Writer, field string, file File) error {
	if file == nil {
		return fmt.Errorf("write %s: nil file", field)
	}
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer func() { _ = src.Close() }()

	contentType := strings.TrimSpace(file.ContentType())
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(file.Name())))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", file.Name(), err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
