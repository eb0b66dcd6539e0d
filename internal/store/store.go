// Package store is the sqlite-backed export ledger: it remembers which
// items were already exported so repeated runs skip them, and answers the
// stats queries for the CLI.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// DB represents the ledger database connection
type DB struct {
	*sqlx.DB
}

// exportedRow is the persisted shape of one export record.
type exportedRow struct {
	models.ExportedItem
	Origin     string    `db:"origin"`
	FileName   string    `db:"file_name"`
	ExportedAt time.Time `db:"exported_at"`
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &DB{db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the ledger tables if they don't exist
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exported_items (
		item_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subreddit TEXT NOT NULL,
		author TEXT NOT NULL,
		score INTEGER NOT NULL,
		created DATETIME NOT NULL,
		permalink TEXT NOT NULL,
		item_type TEXT NOT NULL,
		origin TEXT NOT NULL,
		file_name TEXT NOT NULL,
		exported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exported_subreddit ON exported_items(subreddit);
	CREATE INDEX IF NOT EXISTS idx_exported_origin ON exported_items(origin);
	CREATE INDEX IF NOT EXISTS idx_exported_at ON exported_items(exported_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ItemExported checks if an item has already been exported
func (db *DB) ItemExported(itemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM exported_items WHERE item_id = ?)`
	if err := db.Get(&exists, query, itemID); err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return exists, nil
}

// RecordExport records a rendered document in the ledger
func (db *DB) RecordExport(summary models.ExportedItem, origin models.ContentOrigin, fileName string) error {
	row := exportedRow{
		ExportedItem: summary,
		Origin:       string(origin),
		FileName:     fileName,
		ExportedAt:   time.Now().UTC(),
	}

	query := `
		INSERT OR REPLACE INTO exported_items (
			item_id, title, subreddit, author, score, created,
			permalink, item_type, origin, file_name, exported_at
		) VALUES (
			:item_id, :title, :subreddit, :author, :score, :created,
			:permalink, :item_type, :origin, :file_name, :exported_at
		)
	`

	if _, err := db.NamedExec(query, row); err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExported returns all recorded export summaries, newest first.
func (db *DB) ListExported() ([]models.ExportedItem, error) {
	var items []models.ExportedItem
	query := `
		SELECT item_id, title, subreddit, author, score, created, permalink, item_type
		FROM exported_items ORDER BY exported_at DESC
	`
	if err := db.Select(&items, query); err != nil {
		return nil, fmt.Errorf("failed to list exported items: %w", err)
	}
	return items, nil
}

// Stats summarizes the ledger for the -stats CLI mode.
type Stats struct {
	TotalItems    int
	ByType        map[string]int
	TopSubreddits map[string]int
}

// GetStats returns statistics about exported items
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		ByType:        make(map[string]int),
		TopSubreddits: make(map[string]int),
	}

	if err := db.Get(&stats.TotalItems, `SELECT COUNT(*) FROM exported_items`); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	type countRow struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var typeCounts []countRow
	err := db.Select(&typeCounts, `SELECT item_type AS key, COUNT(*) AS count FROM exported_items GROUP BY item_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get type counts: %w", err)
	}
	for _, row := range typeCounts {
		stats.ByType[row.Key] = row.Count
	}

	var subCounts []countRow
	err = db.Select(&subCounts, `SELECT subreddit AS key, COUNT(*) AS count FROM exported_items GROUP BY subreddit ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to get subreddit counts: %w", err)
	}
	for _, row := range subCounts {
		stats.TopSubreddits[row.Key] = row.Count
	}

	return stats, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
