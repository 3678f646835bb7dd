package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/koustreak/yobatis/internal/database"
)

const closeTimeout = 2 * time.Second

// conn is the part of *pgx.Conn the metadata reader uses.
type conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// metadata reads information_schema over a single pgx connection.
type metadata struct {
	conn      conn
	namespace string
}

func newMetadata(c conn, namespace string) *metadata {
	return &metadata{conn: c, namespace: namespace}
}

// Tables returns the base tables of the namespace, ordered by name.
func (m *metadata) Tables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	return m.strings(ctx, q, "failed to list tables", m.namespace)
}

// Columns returns column names with a YES/NO auto-increment flag covering
// identity columns and serial defaults.
func (m *metadata) Columns(ctx context.Context, table string) ([]database.Column, error) {
	const q = `
		SELECT column_name,
		       CASE WHEN is_identity = 'YES'
		              OR column_default LIKE 'nextval(%'
		            THEN 'YES' ELSE 'NO' END
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name   = $2
		ORDER BY ordinal_position`

	rows, err := m.conn.Query(ctx, q, m.namespace, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch columns")
	}

	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (database.Column, error) {
		var c database.Column
		err := row.Scan(&c.Name, &c.AutoIncrement)
		return c, err
	})
	if err != nil {
		return nil, mapError(err, "failed to scan column info")
	}
	return cols, nil
}

// PrimaryKeys returns the PRIMARY KEY constraint columns in key order.
func (m *metadata) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	const q = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		 AND tc.table_name      = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = $1
		  AND tc.table_name      = $2
		ORDER BY kcu.ordinal_position`

	return m.strings(ctx, q, "failed to fetch primary key", m.namespace, table)
}

// Close releases the connection.
func (m *metadata) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return m.conn.Close(ctx)
}

// strings runs a query returning a single text column.
func (m *metadata) strings(ctx context.Context, q, errMsg string, args ...any) ([]string, error) {
	rows, err := m.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err, errMsg)
	}
	list, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, errMsg)
	}
	return list, nil
}
