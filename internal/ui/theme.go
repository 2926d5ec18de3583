package ui

import "github.com/charmbracelet/lipgloss"

// Theme identifies a reading color scheme for the reader view.
type Theme string

const (
	Day     Theme = "day"
	Night   Theme = "night"
	Sepia   Theme = "sepia"
	Console Theme = "console"
	Grey    Theme = "grey"
)

// Themes lists all reading themes in cycle order.
var Themes = []Theme{Day, Night, Sepia, Console, Grey}

// Palette holds the colors a theme applies to the reader view.
type Palette struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
}

var palettes = map[Theme]Palette{
	Day: {
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#000000"),
		Border:     lipgloss.Color("#e5e7eb"),
		Accent:     lipgloss.Color("#3b82f6"),
	},
	Night: {
		Background: lipgloss.Color("#121212"),
		Text:       lipgloss.Color("#dddddd"),
		Border:     lipgloss.Color("#374151"),
		Accent:     lipgloss.Color("#60a5fa"),
	},
	Sepia: {
		Background: lipgloss.Color("#f4e6d0"),
		Text:       lipgloss.Color("#2d1810"),
		Border:     lipgloss.Color("#d4b896"),
		Accent:     lipgloss.Color("#8b5a2b"),
	},
	Console: {
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#00ff00"),
		Border:     lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#00ff00"),
	},
	Grey: {
		Background: lipgloss.Color("#c0c0c0"),
		Text:       lipgloss.Color("#2c2c2c"),
		Border:     lipgloss.Color("#808080"),
		Accent:     lipgloss.Color("#4a5568"),
	},
}

// Palette returns the color palette for the theme, falling back to Day
// for unknown identifiers.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}

	return palettes[Day]
}

// ValidTheme reports whether s names a known reading theme.
func ValidTheme(s string) bool {
	_, ok := palettes[Theme(s)]

	return ok
}

// NextTheme returns the theme after t in cycle order.
func NextTheme(t Theme) Theme {
	for i, v := range Themes {
		if v == t {
			return Themes[(i+1)%len(Themes)]
		}
	}

	return Day
}
