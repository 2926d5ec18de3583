package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// headerView renders the document name, page position, and session
// clock.
func (m *Model) headerView(p stylePalette) string {
	title := lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true).
		Render(m.doc.Name)

	position := lipgloss.NewStyle().
		Foreground(p.text).
		Render(fmt.Sprintf("  Page %d of %d", m.page, m.pageCount))

	clock := lipgloss.NewStyle().
		Foreground(p.border).
		Render("  [" + m.sessionClock() + "]")

	marker := ""
	if m.bookmarked() {
		marker = lipgloss.NewStyle().
			Foreground(p.accent).
			Render("  ● bookmarked")
	}

	return title + position + clock + marker
}

// pageView renders the placeholder page. Lectern does not parse PDFs,
// so the body is a synthesized stand-in for the real page.
func (m *Model) pageView(p stylePalette) string {
	width := m.width - padding*2 - 4
	if width > maxWidth {
		width = maxWidth
	}

	if width < 20 {
		width = 20
	}

	body := fmt.Sprintf("— page %d —", m.page)

	ruled := strings.Repeat(
		strings.Repeat("┄", width-6)+"\n",
		6,
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.NewStyle().Foreground(p.text).Render(body),
		"",
		lipgloss.NewStyle().Foreground(p.border).Render(strings.TrimRight(ruled, "\n")),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(1, 2).
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}

func (m *Model) bookmarked() bool {
	doc, ok := m.lib.Document(m.doc.ID)
	if !ok {
		return false
	}

	for _, b := range doc.Bookmarks {
		if b.PageNumber == m.page {
			return true
		}
	}

	return false
}

func (m *Model) helpView() string {
	return "\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.prev,
		defaultKeymap.next,
		defaultKeymap.bookmark,
		defaultKeymap.theme,
		defaultKeymap.quit,
	})
}

// stylePalette mirrors the theme colors in lipgloss form.
type stylePalette struct {
	text   lipgloss.Color
	border lipgloss.Color
	accent lipgloss.Color
}

func (m *Model) palette() stylePalette {
	p := m.theme.Palette()

	return stylePalette{
		text:   p.Text,
		border: p.Border,
		accent: p.Accent,
	}
}

func (m *Model) View() string {
	p := m.palette()

	var s strings.Builder

	s.WriteString(m.headerView(p))
	s.WriteString("\n\n")
	s.WriteString(m.pageView(p))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(float64(m.page) / float64(m.pageCount)))
	s.WriteString(m.helpView())

	return lipgloss.NewStyle().Padding(1, padding).Render(s.String())
}
