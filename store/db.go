package store

import "lectern/internal/models"

// DB is the database storage interface. Each Load/Save pair owns one of
// the persisted snapshot keys. Load methods return zero values for
// missing or malformed snapshots instead of failing.
type DB interface {
	// LoadStats returns the persisted reading stats snapshot.
	LoadStats() (models.ReadingStats, error)
	// SaveStats overwrites the reading stats snapshot.
	SaveStats(stats *models.ReadingStats) error
	// LoadDocuments returns all persisted document records.
	LoadDocuments() ([]models.Document, error)
	// SaveDocuments overwrites the document records.
	SaveDocuments(docs []models.Document) error
	// LoadFolders returns all persisted folder records.
	LoadFolders() ([]models.Folder, error)
	// SaveFolders overwrites the folder records.
	SaveFolders(folders []models.Folder) error
	// LoadTheme returns the persisted reading theme identifier.
	LoadTheme() (string, error)
	// SaveTheme overwrites the reading theme identifier.
	SaveTheme(theme string) error
	// Close ends the database connection
	Close() error
}
