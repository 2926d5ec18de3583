// Package testutil provides shared test doubles.
package testutil

import (
	"errors"
	"sync"

	"lectern/internal/models"
)

// ErrSaveFailed is returned by MemoryDB when FailSaves is set.
var ErrSaveFailed = errors.New("storage unavailable")

// MemoryDB is an in-memory store.DB implementation for tests. It counts
// saves per snapshot key and can be made to fail all writes.
type MemoryDB struct {
	mu         sync.Mutex
	Stats      models.ReadingStats
	Docs       []models.Document
	Folders    []models.Folder
	Theme      string
	SaveCounts map[string]int
	FailSaves  bool
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		SaveCounts: make(map[string]int),
	}
}

func (m *MemoryDB) record(key string) error {
	m.SaveCounts[key]++

	if m.FailSaves {
		return ErrSaveFailed
	}

	return nil
}

func (m *MemoryDB) LoadStats() (models.ReadingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Stats, nil
}

func (m *MemoryDB) SaveStats(stats *models.ReadingStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("reading-stats"); err != nil {
		return err
	}

	m.Stats = *stats

	return nil
}

func (m *MemoryDB) LoadDocuments() ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]models.Document, len(m.Docs))
	copy(docs, m.Docs)

	return docs, nil
}

func (m *MemoryDB) SaveDocuments(docs []models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("pdf-library"); err != nil {
		return err
	}

	m.Docs = make([]models.Document, len(docs))
	copy(m.Docs, docs)

	return nil
}

func (m *MemoryDB) LoadFolders() ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	folders := make([]models.Folder, len(m.Folders))
	copy(folders, m.Folders)

	return folders, nil
}

func (m *MemoryDB) SaveFolders(folders []models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("pdf-folders"); err != nil {
		return err
	}

	m.Folders = make([]models.Folder, len(folders))
	copy(m.Folders, folders)

	return nil
}

func (m *MemoryDB) LoadTheme() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Theme, nil
}

func (m *MemoryDB) SaveTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("reading-theme"); err != nil {
		return err
	}

	m.Theme = theme

	return nil
}

func (m *MemoryDB) Close() error {
	return nil
}

// Saves returns how many times the given snapshot key was written.
func (m *MemoryDB) Saves(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.SaveCounts[key]
}
