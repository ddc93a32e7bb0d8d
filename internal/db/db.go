// Package db provides PostgreSQL storage for generated exports.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the exports table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveExport stores an export. A zero ID is replaced with a new UUID, which
// is returned.
func (db *DB) SaveExport(ctx context.Context, e *Export) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO exports (id, template_id, filename, method, format, orientation, pages, size_bytes, warnings, pdf)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		e.ID, e.TemplateID, e.Filename, e.Method, e.Format, e.Orientation, e.Pages, len(e.PDF), warningsJSON, e.PDF,
	).Scan(&e.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save export: %w", err)
	}
	e.SizeBytes = len(e.PDF)
	return e.ID, nil
}

// GetExport retrieves an export with its PDF. It returns nil, nil when no
// export has the ID.
func (db *DB) GetExport(ctx context.Context, id uuid.UUID) (*Export, error) {
	var e Export
	var warningsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, template_id, filename, method, format, orientation, pages, size_bytes, warnings, pdf, created_at
		 FROM exports WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.TemplateID, &e.Filename, &e.Method, &e.Format, &e.Orientation,
		&e.Pages, &e.SizeBytes, &warningsJSON, &e.PDF, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &e.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal export warnings: %w", err)
		}
	}
	return &e, nil
}

// ListExports retrieves the most recent exports, newest first
func (db *DB) ListExports(ctx context.Context, limit int) ([]ExportSummary, error) {
	return db.ListExportsFiltered(ctx, ExportFilters{Limit: limit})
}

// ListExportsFiltered retrieves exports with optional filters
func (db *DB) ListExportsFiltered(ctx context.Context, filters ExportFilters) ([]ExportSummary, error) {
	query, args := listQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	exports := []ExportSummary{}
	for rows.Next() {
		var s ExportSummary
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.Filename, &s.Method, &s.Pages, &s.SizeBytes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return exports, nil
}

// DeleteExport removes an export
func (db *DB) DeleteExport(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM exports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("export not found: %s", id)
	}
	return nil
}

func listQuery(filters ExportFilters) (string, []any) {
	switch {
	case filters.Limit <= 0:
		filters.Limit = DefaultListLimit
	case filters.Limit > MaxListLimit:
		filters.Limit = MaxListLimit
	}

	query := `SELECT id, template_id, filename, method, pages, size_bytes, created_at
		FROM exports WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.TemplateID != "" {
		query += fmt.Sprintf(" AND template_id = $%d", argNum)
		args = append(args, filters.TemplateID)
		argNum++
	}
	if filters.Method != "" {
		query += fmt.Sprintf(" AND method = $%d", argNum)
		args = append(args, filters.Method)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}
