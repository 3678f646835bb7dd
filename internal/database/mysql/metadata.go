package mysql

import (
	"context"
	"database/sql"

	"github.com/koustreak/yobatis/internal/database"
)

// metadata reads information_schema over a single *sql.DB connection.
type metadata struct {
	db     *sql.DB
	schema string
}

func newMetadata(db *sql.DB, schema string) *metadata {
	return &metadata{db: db, schema: schema}
}

// Tables returns the base tables of the schema, ordered by name.
func (m *metadata) Tables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	return m.strings(ctx, q, "failed to list tables", m.schema)
}

// Columns returns column names with their raw EXTRA value.
func (m *metadata) Columns(ctx context.Context, table string) ([]database.Column, error) {
	const q = `
		SELECT column_name,
		       extra
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := m.db.QueryContext(ctx, q, m.schema, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	var cols []database.Column
	for rows.Next() {
		var name string
		var extra sql.NullString
		if err := rows.Scan(&name, &extra); err != nil {
			return nil, mapError(err, "failed to scan column info")
		}
		cols = append(cols, database.Column{Name: name, AutoIncrement: extra.String})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating columns")
	}
	return cols, nil
}

// PrimaryKeys returns the PRIMARY constraint columns in key order.
func (m *metadata) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	const q = `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema    = ?
		  AND table_name      = ?
		  AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`

	return m.strings(ctx, q, "failed to fetch primary key", m.schema, table)
}

// Close releases the connection.
func (m *metadata) Close() error {
	return m.db.Close()
}

// strings runs a query returning a single text column.
func (m *metadata) strings(ctx context.Context, q, errMsg string, args ...any) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err, errMsg)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, mapError(err, errMsg)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, errMsg)
	}
	return list, nil
}
