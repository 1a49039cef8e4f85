package linkqr

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeepLink(t *testing.T) {
	tests := []struct {
		bot, code, want string
	}{
		{"", "ABC123", "https://t.me/reminder_training_bot?start=ABC123"},
		{"@other_bot", "x y", "https://t.me/other_bot?start=x+y"},
	}
	for _, tc := range tests {
		if got := DeepLink(tc.bot, tc.code); got != tc.want {
			t.Fatalf("DeepLink(%q, %q) = %q, want %q", tc.bot, tc.code, got, tc.want)
		}
	}
}

func TestRenderProducesSquareBlock(t *testing.T) {
	out, err := Render(DeepLink("", "ABC123"), 2)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	lines := strings.Split(out, "\n")
	width := utf8.RuneCountInString(lines[0])
	if width < 21+4 {
		t.Fatalf("width = %d, want at least 25 modules", width)
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			t.Fatalf("line %d width = %d, want %d", i, n, width)
		}
	}
	if want := (width + 1) / 2; len(lines) != want {
		t.Fatalf("rows = %d, want %d", len(lines), want)
	}
	if strings.TrimSpace(lines[0]) != "" {
		t.Fatalf("quiet zone row contains modules: %q", lines[0])
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Fatalf("no dark modules rendered")
	}
}
