package database

import (
	"context"
	"strconv"
	"strings"
)

// Dialect is the per-database strategy used by Provider. Implementations are
// stateless; one is picked when the Provider is built and never changes.
type Dialect interface {
	// Name identifies the dialect in logs and errors (e.g. "mysql").
	Name() string

	// ParseSchema extracts the schema from a connection url. It fails with
	// an InvalidConfiguration error when the url has no schema segment.
	ParseSchema(url string) (string, error)

	// Connect opens a short-lived metadata connection scoped to schema.
	// The caller must Close the returned Metadata.
	Connect(ctx context.Context, params ConnParams, schema string) (Metadata, error)

	// IsAutoIncrement maps the native auto-increment flag reported in
	// Column.AutoIncrement to a boolean.
	IsAutoIncrement(flag string) bool
}

// Metadata is an open metadata connection. It is only valid until Close.
type Metadata interface {
	// Tables lists the base tables of the schema. Views and system
	// objects are excluded.
	Tables(ctx context.Context) ([]string, error)

	// Columns lists the columns of table in declaration order.
	Columns(ctx context.Context, table string) ([]Column, error)

	// PrimaryKeys lists the primary key columns of table in key order.
	PrimaryKeys(ctx context.Context, table string) ([]string, error)

	// Close releases the connection.
	Close() error
}

// Column is one row of column metadata.
type Column struct {
	Name string

	// AutoIncrement is the raw flag as reported by the database, e.g.
	// "YES", "true", "auto_increment" or "1". Empty when the metadata
	// left it null.
	AutoIncrement string
}

// IsTruthyFlag is the shared flag reading: case-insensitive "true" or
// "yes" anywhere in the value, or a non-zero integer.
func IsTruthyFlag(flag string) bool {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		return false
	}
	if strings.Contains(f, "true") || strings.Contains(f, "yes") {
		return true
	}
	if n, err := strconv.ParseInt(f, 10, 64); err == nil {
		return n != 0
	}
	return false
}
