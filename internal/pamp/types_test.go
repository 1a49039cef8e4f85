package pamp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMediaSourcePrefersURL(t *testing.T) {
	img := PostImage{ID: 1, Image: "/media/post_images/a.png", ImageURL: "https://cdn.example/a.png"}
	if img.Source() != "https://cdn.example/a.png" {
		t.Fatalf("Source = %q, want url", img.Source())
	}
	img.ImageURL = " "
	if img.Source() != "/media/post_images/a.png" {
		t.Fatalf("Source = %q, want stored path", img.Source())
	}
	vid := PostVideo{ID: 2, Video: "/media/post_videos/b.mp4"}
	if vid.Source() != "/media/post_videos/b.mp4" {
		t.Fatalf("Source = %q, want stored path", vid.Source())
	}
}

func TestPostDecodesServerPayload(t *testing.T) {
	raw := `{
		"id": 12,
		"title": "Intervals",
		"training_type": "cardio",
		"description": "6x400m",
		"views": 3,
		"created_at": "2025-03-01T10:00:00Z",
		"images": [{"id": 1, "image": null, "image_url": "https://x/y.jpg"}],
		"videos": [{"id": 2, "video": "/media/v.mp4", "video_url": null}],
		"profile": {"id": 4, "user": {"id": 8, "username": "ana"}, "avatar": "/media/a.jpg"}
	}`
	var post Post
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if post.ID != 12 || len(post.Images) != 1 || len(post.Videos) != 1 {
		t.Fatalf("post = %#v", post)
	}
	if post.Images[0].Source() != "https://x/y.jpg" || post.Videos[0].Source() != "/media/v.mp4" {
		t.Fatalf("media sources = %q, %q", post.Images[0].Source(), post.Videos[0].Source())
	}
	if post.Profile.DisplayName() != "ana" {
		t.Fatalf("DisplayName = %q, want ana", post.Profile.DisplayName())
	}
	if post.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt should parse RFC3339")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if parseTime("2025-12-13T10:11:12.123456Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339Nano")
	}
	got := parseTime("2025-12-13 10:11:12")
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 13 {
		t.Fatalf("parseTime = %v, want 2025-12-13", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for unknown layouts")
	}
}
