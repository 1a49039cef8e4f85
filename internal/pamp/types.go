package pamp

import (
	"strings"
	"time"
)

const serverTimestampLayout = "2006-01-02 15:04:05"

// User mirrors the nested user object returned by the profile endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile mirrors /api/user-profile/ and the profile embedded in posts.
type Profile struct {
	ID       int64  `json:"id"`
	User     User   `json:"user"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// DisplayName returns the best available name for the profile owner.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Username); name != "" {
		return name
	}
	return strings.TrimSpace(p.User.Username)
}

// PostImage is one image row of a post. Uploaded files populate Image with the
// stored path; linked images populate ImageURL.
type PostImage struct {
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}

// Source returns the address the image can be fetched from.
func (i PostImage) Source() string {
	return firstNonEmpty(i.ImageURL, i.Image)
}

// PostVideo is one video row of a post.
type PostVideo struct {
	ID       int64  `json:"id"`
	Video    string `json:"video"`
	VideoURL string `json:"video_url"`
}

// Source returns the address the video can be fetched from.
func (v PostVideo) Source() string {
	return firstNonEmpty(v.VideoURL, v.Video)
}

// Post mirrors a post as serialized by /api/posts/.
type Post struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Images       []PostImage `json:"images"`
	Videos       []PostVideo `json:"videos"`
	TrainingType string      `json:"training_type"`
	Description  string      `json:"description"`
	Views        int         `json:"views"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
	Profile      Profile     `json:"profile"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (p Post) ParsedUpdatedAt() time.Time {
	return parseTime(p.UpdatedAt)
}

// TrainingSession mirrors /api/training-sessions/. Date is YYYY-MM-DD, Time is
// HH:MM:SS and DaysOfWeek is a comma separated list of English weekday names.
type TrainingSession struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Recurrence string `json:"recurrence"`
	DaysOfWeek string `json:"days_of_week"`
	Profile    int64  `json:"profile,omitempty"`
}

// TrainingSessionInput is the writable subset sent on create and update.
type TrainingSessionInput struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Recurrence string `json:"recurrence"`
	DaysOfWeek string `json:"days_of_week"`
}

// Credentials are posted to the token endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is posted to /api/register/.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// TokenPair is returned by the token endpoint. Refresh responses only carry Access.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GoogleLogin is the response of the Google credential exchange.
type GoogleLogin struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// TelegramLinkCode is a one-time code the Telegram bot accepts on /start.
type TelegramLinkCode struct {
	Code string `json:"code"`
}

// TelegramLinkStatus reports whether the account is linked to a Telegram chat.
type TelegramLinkStatus struct {
	Linked bool `json:"linked"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(serverTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
