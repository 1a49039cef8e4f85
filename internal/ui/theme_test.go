package ui

import "testing"

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) < 2 {
		t.Fatalf("ThemeNames() = %v, want at least two themes", names)
	}
	seen := map[string]bool{}
	name := names[0]
	for range names {
		if seen[name] {
			t.Fatalf("theme %q repeated before the cycle finished", name)
		}
		seen[name] = true
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("cycle ended at %q, want %q", name, names[0])
	}
	if got := NextTheme("missing"); got != names[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, names[0])
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("missing").Name; got != "Forest" {
		t.Fatalf("GetTheme(missing).Name = %q, want Forest", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
}
