package library

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lectern/internal/models"
	"lectern/internal/testutil"
	"lectern/store"
)

// newTestLibrary returns a library with a deterministic clock, sequential
// record ids, and a debounce delay long enough that only Flush persists.
func newTestLibrary(t *testing.T) (*Library, *testutil.MemoryDB) {
	t.Helper()

	db := testutil.NewMemoryDB()

	var seq int

	lib := New(
		db,
		WithClock(func() time.Time {
			return time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
		}),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithSaveDelay(time.Hour),
	)

	return lib, db
}

func TestAddDocumentDefaults(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/go-in-practice.pdf", "")

	doc, ok := lib.Document(id)
	if !ok {
		t.Fatal("added document not found")
	}

	want := models.Document{
		ID:          "id-1",
		Name:        "go-in-practice.pdf",
		Path:        "/books/go-in-practice.pdf",
		LastOpened:  time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
		CurrentPage: 1,
		Highlights:  []models.Highlight{},
		Bookmarks:   []models.Bookmark{},
		Notes:       []models.Note{},
		History:     []models.HistoryEntry{},
	}

	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryDedupesAndOrders(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/a.pdf", "")

	for _, page := range []int{1, 2, 3, 2, 4} {
		lib.AddToHistory(id, page)
	}

	doc, _ := lib.Document(id)

	var got []int
	for _, h := range doc.History {
		got = append(got, h.PageNumber)
	}

	want := []int{4, 2, 3, 1}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryBounded(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/a.pdf", "")

	for page := 1; page <= historyLimit+5; page++ {
		lib.AddToHistory(id, page)
	}

	doc, _ := lib.Document(id)

	if len(doc.History) != historyLimit {
		t.Fatalf("history length = %d, want %d", len(doc.History), historyLimit)
	}

	if doc.History[0].PageNumber != historyLimit+5 {
		t.Errorf(
			"most recent entry = %d, want %d",
			doc.History[0].PageNumber,
			historyLimit+5,
		)
	}
}

func TestDeleteFolderKeepsDocuments(t *testing.T) {
	lib, _ := newTestLibrary(t)

	folderID := lib.CreateFolder("papers")
	inside1 := lib.AddDocument("/papers/a.pdf", folderID)
	inside2 := lib.AddDocument("/papers/b.pdf", folderID)
	outside := lib.AddDocument("/books/c.pdf", "")

	lib.DeleteFolder(folderID)

	if len(lib.Folders()) != 0 {
		t.Fatalf("folders remaining = %d, want 0", len(lib.Folders()))
	}

	docs := lib.Documents()
	if len(docs) != 3 {
		t.Fatalf("documents remaining = %d, want 3", len(docs))
	}

	for _, id := range []string{inside1, inside2, outside} {
		doc, ok := lib.Document(id)
		if !ok {
			t.Fatalf("document %s missing after folder delete", id)
		}

		if doc.FolderID != "" {
			t.Errorf("document %s folder = %q, want unorganized", id, doc.FolderID)
		}
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/a.pdf", "")
	before, _ := lib.Document(id)

	name := "renamed"
	lib.UpdateDocument("missing", DocumentUpdate{Name: &name})
	lib.DeleteDocument("missing")
	lib.AddToHistory("missing", 4)
	lib.AddHighlight("missing", models.Highlight{Text: "x"})
	lib.RemoveBookmark(id, "missing")
	lib.UpdateFolder("missing", FolderUpdate{Name: &name})
	lib.DeleteFolder("missing")
	lib.UpdateScrollPosition("missing", 100, 2)

	after, _ := lib.Document(id)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("document changed by no-op calls (-want +got):\n%s", diff)
	}

	if len(lib.Documents()) != 1 {
		t.Errorf("documents = %d, want 1", len(lib.Documents()))
	}
}

func TestImportFolderSkipsNonPDF(t *testing.T) {
	lib, _ := newTestLibrary(t)

	paths := []string{
		"/papers/one.pdf",
		"/papers/notes.txt",
		"/papers/two.PDF",
		"/papers/cover.png",
	}

	folderID := lib.ImportFolder(paths, "papers")

	var imported int

	for _, doc := range lib.Documents() {
		if doc.FolderID == folderID {
			imported++
		}
	}

	if imported != 2 {
		t.Errorf("imported documents = %d, want 2", imported)
	}
}

func TestToggleBookmark(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/a.pdf", "")

	if !lib.ToggleBookmark(id, 12, "a.pdf") {
		t.Fatal("first toggle should bookmark the page")
	}

	doc, _ := lib.Document(id)
	if len(doc.Bookmarks) != 1 || doc.Bookmarks[0].PageNumber != 12 {
		t.Fatalf("bookmarks = %+v, want one on page 12", doc.Bookmarks)
	}

	if lib.ToggleBookmark(id, 12, "a.pdf") {
		t.Fatal("second toggle should remove the bookmark")
	}

	doc, _ = lib.Document(id)
	if len(doc.Bookmarks) != 0 {
		t.Fatalf("bookmarks = %+v, want none", doc.Bookmarks)
	}
}

func TestUpdateScrollPositionProgress(t *testing.T) {
	cases := []struct {
		name      string
		pageCount int
		page      int
		want      float64
	}{
		{name: "known page count", pageCount: 200, page: 50, want: 25},
		{name: "finished document", pageCount: 200, page: 200, want: 100},
		{name: "unknown page count", pageCount: 0, page: 42, want: 42},
		{name: "unknown page count clamps", pageCount: 0, page: 150, want: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lib, _ := newTestLibrary(t)

			id := lib.AddDocument("/books/a.pdf", "")

			if tc.pageCount > 0 {
				lib.UpdateDocument(id, DocumentUpdate{PageCount: &tc.pageCount})
			}

			lib.UpdateScrollPosition(id, float64(tc.page)*800, tc.page)

			doc, _ := lib.Document(id)
			if doc.Progress != tc.want {
				t.Errorf("progress = %v, want %v", doc.Progress, tc.want)
			}

			if doc.CurrentPage != tc.page {
				t.Errorf("current page = %d, want %d", doc.CurrentPage, tc.page)
			}
		})
	}
}

func TestFindDocument(t *testing.T) {
	lib, _ := newTestLibrary(t)

	id := lib.AddDocument("/books/Clean Architecture.pdf", "")

	if doc, ok := lib.FindDocument(id); !ok || doc.ID != id {
		t.Error("lookup by id failed")
	}

	doc, ok := lib.FindDocument("clean architecture.pdf")
	if !ok || doc.ID != id {
		t.Error("case-insensitive lookup by name failed")
	}

	if _, ok := lib.FindDocument("no-such-document"); ok {
		t.Error("lookup of unknown document should fail")
	}
}

func TestFlushCoalescesWrites(t *testing.T) {
	lib, db := newTestLibrary(t)

	id := lib.AddDocument("/books/a.pdf", "")

	for page := 1; page <= 10; page++ {
		lib.AddToHistory(id, page)
	}

	if got := db.Saves(store.KeyDocuments); got != 0 {
		t.Fatalf("saves before flush = %d, want 0", got)
	}

	lib.Flush()

	if got := db.Saves(store.KeyDocuments); got != 1 {
		t.Errorf("saves after flush = %d, want 1", got)
	}

	if len(db.Docs) != 1 || len(db.Docs[0].History) != 10 {
		t.Error("flushed snapshot missing the coalesced mutations")
	}
}

func TestScheduledPersistFires(t *testing.T) {
	db := testutil.NewMemoryDB()

	lib := New(db, WithSaveDelay(10*time.Millisecond))

	lib.AddDocument("/books/a.pdf", "")

	deadline := time.Now().Add(2 * time.Second)

	for db.Saves(store.KeyDocuments) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("debounced persist never fired")
		}

		time.Sleep(5 * time.Millisecond)
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	lib, db := newTestLibrary(t)
	db.FailSaves = true

	id := lib.AddDocument("/books/a.pdf", "")

	lib.Flush()

	if _, ok := lib.Document(id); !ok {
		t.Error("in-memory state should survive a failed save")
	}
}
