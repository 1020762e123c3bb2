package layoutcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache stores entries in a SQLite database, one row per placement
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens or creates a SQLite cache at path
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening layout cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating layout cache schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS layout_entries (
			key TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS layout_placements (
			key TEXT NOT NULL REFERENCES layout_entries(key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			node TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			PRIMARY KEY (key, position)
		);
	`
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (*Entry, error) {
	e := &Entry{Key: key}
	var createdAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT graph, created_at FROM layout_entries WHERE key = ?`, key,
	).Scan(&e.Graph, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout %s: %w", key, err)
	}
	e.CreatedAt = time.Unix(0, createdAt).UTC()

	rows, err := c.db.QueryContext(ctx,
		`SELECT node, x, y FROM layout_placements WHERE key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get placements for %s: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Placement
		if err := rows.Scan(&p.Node, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		e.Placements = append(e.Placements, p)
	}
	return e, rows.Err()
}

func (c *SQLiteCache) Put(ctx context.Context, entry *Entry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_placements WHERE key = ?`, entry.Key); err != nil {
		return fmt.Errorf("failed to clear placements for %s: %w", entry.Key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO layout_entries (key, graph, created_at) VALUES (?, ?, ?)`,
		entry.Key, entry.Graph, entry.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to store layout %s: %w", entry.Key, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO layout_placements (key, position, node, x, y) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare placement insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range entry.Placements {
		if _, err := stmt.ExecContext(ctx, entry.Key, i, p.Node, p.X, p.Y); err != nil {
			return fmt.Errorf("failed to store placement %s: %w", p.Node, err)
		}
	}
	return tx.Commit()
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
