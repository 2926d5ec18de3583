// Package library manages the document and folder records, their
// annotations, and their debounced persistence
package library

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lectern/internal/models"
	"lectern/store"
)

const (
	// historyLimit bounds per-document page history.
	historyLimit = 15

	// saveDelay is how long a persist is deferred after a mutation so
	// that bursts of writes coalesce into one.
	saveDelay = 100 * time.Millisecond

	// bytesPerPage drives the synthesized placeholder page count, since
	// lectern does not parse PDF files.
	bytesPerPage = 3 << 10
)

// Library owns the documents and folders. All mutations happen here and
// schedule a debounced persist; missing ids degrade to no-ops and
// persistence failures never propagate to callers.
type Library struct {
	db      store.DB
	now     func() time.Time
	newID   func() string
	flush   *Scheduler
	mu      sync.Mutex
	docs    []models.Document
	folders []models.Folder
}

// Option configures a Library.
type Option func(*Library)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		l.now = now
	}
}

// WithIDFunc overrides record id generation, for deterministic tests.
func WithIDFunc(fn func() string) Option {
	return func(l *Library) {
		l.newID = fn
	}
}

// WithSaveDelay overrides the persist debounce delay.
func WithSaveDelay(d time.Duration) Option {
	return func(l *Library) {
		l.flush = NewScheduler(d, l.persist)
	}
}

// New loads the persisted documents and folders. Malformed or missing
// snapshots load as empty state.
func New(db store.DB, opts ...Option) *Library {
	l := &Library{
		db:    db,
		now:   time.Now,
		newID: newID,
	}

	l.flush = NewScheduler(saveDelay, l.persist)

	for _, opt := range opts {
		opt(l)
	}

	docs, err := db.LoadDocuments()
	if err != nil {
		slog.Error("unable to load documents", slog.Any("error", err))
	}

	folders, err := db.LoadFolders()
	if err != nil {
		slog.Error("unable to load folders", slog.Any("error", err))
	}

	l.docs = docs
	l.folders = folders

	return l
}

// newID returns a creation-time-derived unique record id.
func newID() string {
	var b [4]byte

	_, _ = rand.Read(b[:])

	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}

// pageCountFor synthesizes a placeholder page count from the file size.
func pageCountFor(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	return int(info.Size()/bytesPerPage) + 1
}

// persist writes the document and folder snapshots. The file bytes are
// never included, only metadata. Failures are logged and swallowed; the
// in-memory state remains authoritative.
func (l *Library) persist() {
	l.mu.Lock()
	docs := make([]models.Document, len(l.docs))
	copy(docs, l.docs)
	folders := make([]models.Folder, len(l.folders))
	copy(folders, l.folders)
	l.mu.Unlock()

	if err := l.db.SaveDocuments(docs); err != nil {
		slog.Error("unable to persist documents", slog.Any("error", err))
	}

	if err := l.db.SaveFolders(folders); err != nil {
		slog.Error("unable to persist folders", slog.Any("error", err))
	}
}

// Flush persists the current state immediately, cancelling any pending
// debounced write.
func (l *Library) Flush() {
	l.flush.Flush()
}

// Documents returns a copy of all document records.
func (l *Library) Documents() []models.Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	docs := make([]models.Document, len(l.docs))
	copy(docs, l.docs)

	return docs
}

// Folders returns a copy of all folder records.
func (l *Library) Folders() []models.Folder {
	l.mu.Lock()
	defer l.mu.Unlock()

	folders := make([]models.Folder, len(l.folders))
	copy(folders, l.folders)

	return folders
}

// Document returns the document with the given id.
func (l *Library) Document(id string) (models.Document, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.docIndex(id)
	if i < 0 {
		return models.Document{}, false
	}

	return l.docs[i], true
}

// FindDocument resolves a document by id or, failing that, by
// case-insensitive name match.
func (l *Library) FindDocument(query string) (models.Document, bool) {
	if doc, ok := l.Document(query); ok {
		return doc, true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.docs {
		if strings.EqualFold(l.docs[i].Name, query) {
			return l.docs[i], true
		}
	}

	return models.Document{}, false
}

// TotalTime returns the cumulative minutes spent across all documents.
func (l *Library) TotalTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total float64
	for i := range l.docs {
		total += l.docs[i].TotalTime
	}

	return total
}

func (l *Library) docIndex(id string) int {
	for i := range l.docs {
		if l.docs[i].ID == id {
			return i
		}
	}

	return -1
}

func (l *Library) folderIndex(id string) int {
	for i := range l.folders {
		if l.folders[i].ID == id {
			return i
		}
	}

	return -1
}

// AddDocument creates a new document record with zeroed progress fields
// and returns its id.
func (l *Library) AddDocument(path, folderID string) string {
	l.mu.Lock()

	doc := models.Document{
		ID:          l.newID(),
		Name:        filepath.Base(path),
		Path:        path,
		PageCount:   pageCountFor(path),
		LastOpened:  l.now(),
		CurrentPage: 1,
		Highlights:  []models.Highlight{},
		Bookmarks:   []models.Bookmark{},
		Notes:       []models.Note{},
		History:     []models.HistoryEntry{},
		FolderID:    folderID,
	}

	l.docs = append(l.docs, doc)

	l.mu.Unlock()

	l.flush.Schedule()

	return doc.ID
}

// DocumentUpdate holds the fields a caller may merge into an existing
// document record. Nil fields are left unchanged.
type DocumentUpdate struct {
	Name               *string
	PageCount          *int
	TotalTime          *float64
	LastOpened         *time.Time
	CurrentPage        *int
	LastScrollPosition *float64
	FolderID           *string
}

// UpdateDocument merges the non-nil fields of update into the record.
// Unknown ids are ignored.
func (l *Library) UpdateDocument(id string, update DocumentUpdate) {
	l.mu.Lock()

	i := l.docIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	doc := &l.docs[i]

	if update.Name != nil {
		doc.Name = *update.Name
	}

	if update.PageCount != nil {
		doc.PageCount = *update.PageCount
	}

	if update.TotalTime != nil {
		doc.TotalTime = *update.TotalTime
	}

	if update.LastOpened != nil {
		doc.LastOpened = *update.LastOpened
	}

	if update.CurrentPage != nil {
		doc.CurrentPage = *update.CurrentPage
	}

	if update.LastScrollPosition != nil {
		doc.LastScrollPosition = *update.LastScrollPosition
	}

	if update.FolderID != nil {
		doc.FolderID = *update.FolderID
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// DeleteDocument removes the record. Unknown ids are ignored.
func (l *Library) DeleteDocument(id string) {
	l.mu.Lock()

	i := l.docIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	l.docs = append(l.docs[:i], l.docs[i+1:]...)

	l.mu.Unlock()

	l.flush.Schedule()
}

// MoveToFolder reassigns a document to a folder. An empty folderID
// leaves the document unorganized.
func (l *Library) MoveToFolder(id, folderID string) {
	l.UpdateDocument(id, DocumentUpdate{FolderID: &folderID})
}

// CreateFolder creates a new expanded folder and returns its id.
func (l *Library) CreateFolder(name string) string {
	l.mu.Lock()

	folder := models.Folder{
		ID:         l.newID(),
		Name:       name,
		IsExpanded: true,
		CreatedAt:  l.now(),
	}

	l.folders = append(l.folders, folder)

	l.mu.Unlock()

	l.flush.Schedule()

	return folder.ID
}

// FolderUpdate holds the fields a caller may merge into an existing
// folder record.
type FolderUpdate struct {
	Name       *string
	IsExpanded *bool
}

// UpdateFolder merges the non-nil fields of update into the record.
func (l *Library) UpdateFolder(id string, update FolderUpdate) {
	l.mu.Lock()

	i := l.folderIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	if update.Name != nil {
		l.folders[i].Name = *update.Name
	}

	if update.IsExpanded != nil {
		l.folders[i].IsExpanded = *update.IsExpanded
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// DeleteFolder removes the folder after reassigning its member
// documents to no folder. Documents are never cascade-deleted.
func (l *Library) DeleteFolder(id string) {
	l.mu.Lock()

	i := l.folderIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	for j := range l.docs {
		if l.docs[j].FolderID == id {
			l.docs[j].FolderID = ""
		}
	}

	l.folders = append(l.folders[:i], l.folders[i+1:]...)

	l.mu.Unlock()

	l.flush.Schedule()
}

// ImportFolder creates one folder and adds one document per PDF file.
// Non-PDF files are silently skipped. It returns the new folder's id.
func (l *Library) ImportFolder(paths []string, folderName string) string {
	folderID := l.CreateFolder(folderName)

	for _, path := range paths {
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			continue
		}

		l.AddDocument(path, folderID)
	}

	return folderID
}

// AddHighlight appends a highlight to the document. A zero ID or
// CreatedAt is filled in.
func (l *Library) AddHighlight(docID string, h models.Highlight) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	if h.ID == "" {
		h.ID = l.newID()
	}

	if h.CreatedAt.IsZero() {
		h.CreatedAt = l.now()
	}

	l.docs[i].Highlights = append(l.docs[i].Highlights, h)

	l.mu.Unlock()

	l.flush.Schedule()
}

// RemoveHighlight removes a highlight by id.
func (l *Library) RemoveHighlight(docID, highlightID string) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	hs := l.docs[i].Highlights
	for j := range hs {
		if hs[j].ID == highlightID {
			l.docs[i].Highlights = append(hs[:j], hs[j+1:]...)
			break
		}
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// AddBookmark appends a bookmark to the document.
func (l *Library) AddBookmark(docID string, b models.Bookmark) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	if b.ID == "" {
		b.ID = l.newID()
	}

	if b.CreatedAt.IsZero() {
		b.CreatedAt = l.now()
	}

	l.docs[i].Bookmarks = append(l.docs[i].Bookmarks, b)

	l.mu.Unlock()

	l.flush.Schedule()
}

// RemoveBookmark removes a bookmark by id.
func (l *Library) RemoveBookmark(docID, bookmarkID string) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	bs := l.docs[i].Bookmarks
	for j := range bs {
		if bs[j].ID == bookmarkID {
			l.docs[i].Bookmarks = append(bs[:j], bs[j+1:]...)
			break
		}
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// ToggleBookmark adds a bookmark for the page if none exists, otherwise
// removes the existing one. It reports whether the page is bookmarked
// afterwards.
func (l *Library) ToggleBookmark(docID string, page int, title string) bool {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return false
	}

	bs := l.docs[i].Bookmarks
	for j := range bs {
		if bs[j].PageNumber == page {
			l.docs[i].Bookmarks = append(bs[:j], bs[j+1:]...)

			l.mu.Unlock()
			l.flush.Schedule()

			return false
		}
	}

	l.docs[i].Bookmarks = append(bs, models.Bookmark{
		ID:         l.newID(),
		PageNumber: page,
		Title:      title,
		CreatedAt:  l.now(),
	})

	l.mu.Unlock()

	l.flush.Schedule()

	return true
}

// AddNote appends a note to the document.
func (l *Library) AddNote(docID string, n models.Note) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	if n.ID == "" {
		n.ID = l.newID()
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = l.now()
	}

	l.docs[i].Notes = append(l.docs[i].Notes, n)

	l.mu.Unlock()

	l.flush.Schedule()
}

// RemoveNote removes a note by id.
func (l *Library) RemoveNote(docID, noteID string) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	ns := l.docs[i].Notes
	for j := range ns {
		if ns[j].ID == noteID {
			l.docs[i].Notes = append(ns[:j], ns[j+1:]...)
			break
		}
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// UpdateScrollPosition records the reading position and recomputes the
// progress percentage. Progress uses the synthesized page count when
// one is known; records persisted without one fall back to treating the
// document as 100 pages.
func (l *Library) UpdateScrollPosition(docID string, scrollOffset float64, page int) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	doc := &l.docs[i]
	doc.LastScrollPosition = scrollOffset
	doc.CurrentPage = page

	if doc.PageCount > 0 {
		doc.Progress = math.Min(float64(page)/float64(doc.PageCount)*100, 100)
	} else {
		doc.Progress = math.Min(float64(page), 100)
	}

	l.mu.Unlock()

	l.flush.Schedule()
}

// AddToHistory records a page visit. History is bounded to the most
// recent entries, holds no duplicate page numbers, and is ordered most
// recent first: revisiting a page moves it to the front.
func (l *Library) AddToHistory(docID string, page int) {
	l.mu.Lock()

	i := l.docIndex(docID)
	if i < 0 {
		l.mu.Unlock()
		return
	}

	entry := models.HistoryEntry{
		PageNumber: page,
		Timestamp:  l.now(),
	}

	history := make([]models.HistoryEntry, 0, len(l.docs[i].History)+1)
	history = append(history, entry)

	for _, h := range l.docs[i].History {
		if h.PageNumber == page {
			continue
		}

		history = append(history, h)
	}

	if len(history) > historyLimit {
		history = history[:historyLimit]
	}

	l.docs[i].History = history

	l.mu.Unlock()

	l.flush.Schedule()
}
