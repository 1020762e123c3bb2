package layoutcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGCache stores entries in PostgreSQL. Placements are bulk-loaded with COPY.
type PGCache struct {
	pool *pgxpool.Pool
}

// NewPGCache connects to databaseURL and creates the tables if needed
func NewPGCache(ctx context.Context, databaseURL string) (*PGCache, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	c := &PGCache{pool: pool}
	if err := c.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return c, nil
}

func (c *PGCache) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS layout_entries (
		key TEXT PRIMARY KEY,
		graph TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS layout_placements (
		key TEXT NOT NULL REFERENCES layout_entries(key) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		node TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (key, position)
	);
	`
	_, err := c.pool.Exec(ctx, schema)
	return err
}

func (c *PGCache) Get(ctx context.Context, key string) (*Entry, error) {
	e := &Entry{Key: key}
	err := c.pool.QueryRow(ctx,
		`SELECT graph, created_at FROM layout_entries WHERE key = $1`, key,
	).Scan(&e.Graph, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout %s: %w", key, err)
	}

	rows, err := c.pool.Query(ctx,
		`SELECT node, x, y FROM layout_placements WHERE key = $1 ORDER BY position`, key)
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

func (c *PGCache) Put(ctx context.Context, entry *Entry) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM layout_entries WHERE key = $1`, entry.Key); err != nil {
		return fmt.Errorf("failed to clear layout %s: %w", entry.Key, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO layout_entries (key, graph, created_at) VALUES ($1, $2, $3)`,
		entry.Key, entry.Graph, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to store layout %s: %w", entry.Key, err)
	}

	rows := make([][]any, len(entry.Placements))
	for i, p := range entry.Placements {
		rows[i] = []any{entry.Key, int32(i), p.Node, p.X, p.Y}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"layout_placements"},
		[]string{"key", "position", "node", "x", "y"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("failed to copy placements for %s: %w", entry.Key, err)
	}
	return tx.Commit(ctx)
}

func (c *PGCache) Close() error {
	c.pool.Close()
	return nil
}
