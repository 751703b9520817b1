package artwork

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists resized artwork across restarts using SQLite
type Cache struct {
	db *sql.DB
}

// NewCache opens (or creates) an artwork cache at dbPath
func NewCache(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS artwork (
			url TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_fetched_at ON artwork(fetched_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached image for url. ok is false on a miss.
func (c *Cache) Get(ctx context.Context, url string) (data []byte, ok bool, err error) {
	err = c.db.QueryRowContext(ctx, `SELECT data FROM artwork WHERE url = ?`, url).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read artwork: %w", err)
	}
	return data, true, nil
}

// Put stores data for url, replacing any previous entry
func (c *Cache) Put(ctx context.Context, url string, data []byte) error {
	return c.put(ctx, url, data, time.Now())
}

func (c *Cache) put(ctx context.Context, url string, data []byte, fetchedAt time.Time) error {
	query := `
		INSERT INTO artwork (url, data, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
	`

	if _, err := c.db.ExecContext(ctx, query, url, data, fetchedAt.Unix()); err != nil {
		return fmt.Errorf("failed to store artwork: %w", err)
	}
	return nil
}

// Cleanup removes entries fetched more than maxAge ago
// Returns the number of entries deleted
func (c *Cache) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := c.db.ExecContext(ctx, `DELETE FROM artwork WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup artwork: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// Count returns the number of cached images
func (c *Cache) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artwork`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count artwork: %w", err)
	}
	return count, nil
}
