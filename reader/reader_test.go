package reader

import (
	"testing"
	"time"

	"lectern/config"
	"lectern/internal/testutil"
	"lectern/internal/ui"
	"lectern/library"
	"lectern/notify"
	"lectern/stats"
)

func newTestModel(t *testing.T, pageCount int) (*Model, *library.Library) {
	t.Helper()

	db := testutil.NewMemoryDB()

	lib := library.New(db, library.WithSaveDelay(time.Hour))

	id := lib.AddDocument("/books/a.pdf", "")
	if pageCount > 0 {
		lib.UpdateDocument(id, library.DocumentUpdate{PageCount: &pageCount})
	}

	cfg := &config.Settings{DailyGoal: 30}
	tracker := stats.NewTracker(db, notify.NewDesktop(false), cfg)

	m, err := New(lib, tracker, db, id, ui.Day)
	if err != nil {
		t.Fatalf("unable to build reader: %v", err)
	}

	return m, lib
}

func TestNewUnknownDocument(t *testing.T) {
	db := testutil.NewMemoryDB()

	lib := library.New(db)

	cfg := &config.Settings{DailyGoal: 30}
	tracker := stats.NewTracker(db, notify.NewDesktop(false), cfg)

	if _, err := New(lib, tracker, db, "missing", ui.Day); err == nil {
		t.Fatal("expected an error for an unknown document")
	}
}

func TestSetPageClamps(t *testing.T) {
	m, _ := newTestModel(t, 50)

	m.setPage(0)

	if m.Page() != 1 {
		t.Errorf("page = %d, want 1", m.Page())
	}

	m.setPage(999)

	if m.Page() != 50 {
		t.Errorf("page = %d, want 50", m.Page())
	}
}

func TestSetPageRecordsPosition(t *testing.T) {
	m, lib := newTestModel(t, 50)

	m.setPage(10)

	doc, _ := lib.Document(m.doc.ID)

	if doc.CurrentPage != 10 {
		t.Errorf("current page = %d, want 10", doc.CurrentPage)
	}

	if doc.Progress != 20 {
		t.Errorf("progress = %v, want 20", doc.Progress)
	}

	if len(doc.History) == 0 || doc.History[0].PageNumber != 10 {
		t.Errorf("history = %+v, want page 10 first", doc.History)
	}
}

func TestLastVisited(t *testing.T) {
	m, _ := newTestModel(t, 50)

	m.setPage(10)
	m.setPage(25)

	if got := m.lastVisited(); got != 10 {
		t.Errorf("last visited = %d, want 10", got)
	}

	// No earlier visit to return to.
	m2, _ := newTestModel(t, 50)

	if got := m2.lastVisited(); got != m2.Page() {
		t.Errorf("last visited = %d, want current page %d", got, m2.Page())
	}
}

func TestFallbackPageCount(t *testing.T) {
	m, _ := newTestModel(t, 0)

	if m.pageCount != fallbackPageCount {
		t.Errorf("page count = %d, want %d", m.pageCount, fallbackPageCount)
	}
}
