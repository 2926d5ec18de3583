package ui

import "testing"

func TestValidTheme(t *testing.T) {
	for _, theme := range Themes {
		if !ValidTheme(string(theme)) {
			t.Errorf("ValidTheme(%q) = false, want true", theme)
		}
	}

	if ValidTheme("solarized") {
		t.Error("ValidTheme(\"solarized\") = true, want false")
	}
}

func TestNextThemeCycles(t *testing.T) {
	seen := make(map[Theme]bool)

	theme := Day

	for range Themes {
		seen[theme] = true
		theme = NextTheme(theme)
	}

	if theme != Day {
		t.Errorf("cycle ended on %q, want day", theme)
	}

	if len(seen) != len(Themes) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(Themes))
	}
}

func TestPaletteFallback(t *testing.T) {
	if Theme("bogus").Palette() != Day.Palette() {
		t.Error("unknown theme should fall back to the day palette")
	}
}
