// Package store connects to the data store and manages the persisted
// library, stats, and theme snapshots
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"lectern/internal/models"
)

const snapshotBucket = "snapshots"

// Persisted snapshot keys.
const (
	KeyStats     = "reading-stats"
	KeyDocuments = "pdf-library"
	KeyFolders   = "pdf-folders"
	KeyTheme     = "reading-theme"
)

var errLecternRunning = errors.New(
	"is lectern already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) getSnapshot(key string) ([]byte, error) {
	var b []byte

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(snapshotBucket)).Get([]byte(key))
		if v != nil {
			b = make([]byte, len(v))
			copy(b, v)
		}

		return nil
	})

	return b, err
}

func (c *Client) putSnapshot(key string, value []byte) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Put([]byte(key), value)
	})
}

// loadJSON unmarshals a snapshot into dst. A missing snapshot leaves dst
// untouched; a malformed one is logged and discarded so that the caller
// starts from a zeroed state.
func (c *Client) loadJSON(key string, dst any) error {
	b, err := c.getSnapshot(key)
	if err != nil {
		return err
	}

	if len(b) == 0 {
		return nil
	}

	if err = json.Unmarshal(b, dst); err != nil {
		slog.Warn(
			"discarding malformed snapshot",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return nil
}

func (c *Client) saveJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.putSnapshot(key, b)
}

func (c *Client) LoadStats() (models.ReadingStats, error) {
	var stats models.ReadingStats

	err := c.loadJSON(KeyStats, &stats)

	return stats, err
}

func (c *Client) SaveStats(stats *models.ReadingStats) error {
	return c.saveJSON(KeyStats, stats)
}

func (c *Client) LoadDocuments() ([]models.Document, error) {
	var docs []models.Document

	err := c.loadJSON(KeyDocuments, &docs)

	return docs, err
}

func (c *Client) SaveDocuments(docs []models.Document) error {
	return c.saveJSON(KeyDocuments, docs)
}

func (c *Client) LoadFolders() ([]models.Folder, error) {
	var folders []models.Folder

	err := c.loadJSON(KeyFolders, &folders)

	return folders, err
}

func (c *Client) SaveFolders(folders []models.Folder) error {
	return c.saveJSON(KeyFolders, folders)
}

func (c *Client) LoadTheme() (string, error) {
	b, err := c.getSnapshot(KeyTheme)

	return string(b), err
}

func (c *Client) SaveTheme(theme string) error {
	return c.putSnapshot(KeyTheme, []byte(theme))
}

// open creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseNotOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errLecternRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	// Create the snapshot bucket if it does not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
