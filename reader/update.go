package reader

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"lectern/internal/ui"
	"lectern/library"
)

// setPage moves to the given page, clamped to the document bounds, and
// records the new reading position and page visit.
func (m *Model) setPage(page int) {
	if page < 1 {
		page = 1
	}

	if page > m.pageCount {
		page = m.pageCount
	}

	if page == m.page {
		return
	}

	m.page = page

	m.lib.UpdateScrollPosition(m.doc.ID, float64(page-1)*pageHeight, page)
	m.lib.AddToHistory(m.doc.ID, page)
}

// lastVisited returns the most recent history entry for a different
// page, so `u` jumps back to where the reader came from.
func (m *Model) lastVisited() int {
	doc, ok := m.lib.Document(m.doc.ID)
	if !ok {
		return m.page
	}

	for _, h := range doc.History {
		if h.PageNumber != m.page {
			return h.PageNumber
		}
	}

	return m.page
}

// endSession stops the session timer, folds the session duration into
// the document's total reading time, and flushes any pending writes.
func (m *Model) endSession() {
	minutes := m.tracker.EndSession()

	if doc, ok := m.lib.Document(m.doc.ID); ok {
		total := doc.TotalTime + minutes
		m.lib.UpdateDocument(m.doc.ID, library.DocumentUpdate{TotalTime: &total})
	}

	m.lib.Flush()
}

func (m *Model) cycleTheme() {
	m.theme = ui.NextTheme(m.theme)

	if err := m.db.SaveTheme(string(m.theme)); err != nil {
		slog.Error("unable to persist reading theme", slog.Any("error", err))
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.next):
		m.setPage(m.page + 1)

	case key.Matches(msg, defaultKeymap.prev):
		m.setPage(m.page - 1)

	case key.Matches(msg, defaultKeymap.first):
		m.setPage(1)

	case key.Matches(msg, defaultKeymap.last):
		m.setPage(m.pageCount)

	case key.Matches(msg, defaultKeymap.back):
		m.setPage(m.lastVisited())

	case key.Matches(msg, defaultKeymap.bookmark):
		m.lib.ToggleBookmark(m.doc.ID, m.page, m.doc.Name)

	case key.Matches(msg, defaultKeymap.theme):
		m.cycleTheme()

	case key.Matches(msg, defaultKeymap.quit):
		m.endSession()

		return m, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return m, nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.debug {
		slog.Info(spew.Sdump(msg))
	}

	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		var progressModel tea.Model
		var cmd tea.Cmd

		progressModel, cmd = m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

// sessionClock formats the elapsed session time as "MM:SS".
func (m *Model) sessionClock() string {
	elapsed := m.tracker.SessionElapsed().Round(time.Second)

	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60

	return fmt.Sprintf("%02d:%02d", mins, secs)
}
