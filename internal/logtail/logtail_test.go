package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pamp.log")

	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("line %d", i))
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(all, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, all[5:]},
		{"exactly all", 10, all},
		{"more than exists", 20, all},
		{"one", 1, all[9:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Read() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantTime time.Time
		wantMsg  string
	}{
		{
			name:     "prefixed",
			line:     "pamp 2025/03/03 18:00:05 poll failed: fetch posts: timeout",
			wantTime: time.Date(2025, 3, 3, 18, 0, 5, 0, time.Local),
			wantMsg:  "poll failed: fetch posts: timeout",
		},
		{
			name:    "no timestamp",
			line:    "  panic: boom  ",
			wantMsg: "panic: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line, "pamp")
			if !got.Time.Equal(tt.wantTime) || got.Message != tt.wantMsg {
				t.Fatalf("Parse() = %v/%q, want %v/%q", got.Time, got.Message, tt.wantTime, tt.wantMsg)
			}
		})
	}
}

func TestProblems(t *testing.T) {
	lines := []string{
		"pamp 2025/03/03 18:00:00 poll failed: first",
		"pamp 2025/03/03 18:00:01 refreshed",
		"pamp 2025/03/03 18:00:02 upload error: too large",
		"pamp 2025/03/03 18:00:03 poll failed: third",
	}

	got := Problems(lines, "pamp", 2)
	if len(got) != 2 {
		t.Fatalf("Problems() returned %d entries, want 2", len(got))
	}
	if got[0].Message != "upload error: too large" || got[1].Message != "poll failed: third" {
		t.Fatalf("Problems() = %#v, want the two newest failures oldest first", got)
	}

	if got := Problems(lines[1:2], "pamp", 5); len(got) != 0 {
		t.Fatalf("Problems() = %#v, want none", got)
	}
}
