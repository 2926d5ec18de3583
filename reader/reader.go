// Package reader operates the terminal reading view. It pages through a
// document's placeholder pages while a reading session is timed, and
// records position, history, and bookmarks as the user moves around.
package reader

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/models"
	"lectern/internal/ui"
	"lectern/library"
	"lectern/stats"
	"lectern/store"
)

var errDocumentNotFound = errors.New(
	"document not found: add it with 'lectern add' first",
)

const (
	padding  = 2
	maxWidth = 80

	// fallbackPageCount treats documents persisted without a
	// synthesized page count as 100 pages.
	fallbackPageCount = 100

	// pageHeight is the synthetic scroll offset of one placeholder page.
	pageHeight = 800.0
)

type tickMsg time.Time

// Model is the bubbletea model for the reader view.
type Model struct {
	lib      *library.Library
	tracker  *stats.Tracker
	db       store.DB
	doc      models.Document
	theme    ui.Theme
	page     int
	pageCount int
	progress progress.Model
	help     help.Model
	width    int
	debug    bool
}

// New prepares a reader for the given document.
func New(
	lib *library.Library,
	tracker *stats.Tracker,
	db store.DB,
	docID string,
	theme ui.Theme,
) (*Model, error) {
	doc, ok := lib.Document(docID)
	if !ok {
		return nil, errDocumentNotFound
	}

	pageCount := doc.PageCount
	if pageCount <= 0 {
		pageCount = fallbackPageCount
	}

	page := doc.CurrentPage
	if page < 1 {
		page = 1
	}

	if page > pageCount {
		page = pageCount
	}

	return &Model{
		lib:       lib,
		tracker:   tracker,
		db:        db,
		doc:       doc,
		theme:     theme,
		page:      page,
		pageCount: pageCount,
		progress:  progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		debug:     os.Getenv("LECTERN_DEBUG") != "",
	}, nil
}

// Page returns the page currently displayed.
func (m *Model) Page() int {
	return m.page
}

// Theme returns the active reading theme.
func (m *Model) Theme() ui.Theme {
	return m.theme
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the reading session and records the opening page visit.
func (m *Model) Init() tea.Cmd {
	m.tracker.StartSession()

	now := time.Now()
	m.lib.UpdateDocument(m.doc.ID, library.DocumentUpdate{LastOpened: &now})
	m.lib.AddToHistory(m.doc.ID, m.page)

	return tick()
}
