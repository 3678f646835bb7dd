// Package schema holds the language-neutral model handed to code generators.
package schema

import (
	"slices"
	"strings"

	"github.com/koustreak/yobatis/internal/errs"
)

// Table describes one database table: its primary key in discovery order and
// the columns the database assigns values to on insert.
//
// A Table is populated by a single introspection pass and must be treated as
// read-only once returned to the caller.
type Table struct {
	name           string
	primaryKey     []string
	autoIncColumns map[string]struct{}
}

// NewTable returns an empty table. A blank name is rejected with an
// InvalidArgument error.
func NewTable(name string) (*Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.New(errs.ErrKindInvalidArgument, "table name must not be empty")
	}
	return &Table{
		name:           name,
		autoIncColumns: make(map[string]struct{}),
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Rename changes the table name. A blank name is rejected.
func (t *Table) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.New(errs.ErrKindInvalidArgument, "table name must not be empty")
	}
	t.name = name
	return nil
}

// AddPrimaryKey appends column to the primary key. Order matters for
// compound keys; duplicates are kept as given.
func (t *Table) AddPrimaryKey(column string) {
	t.primaryKey = append(t.primaryKey, column)
}

// AddAutoIncColumn marks column as auto-increment.
func (t *Table) AddAutoIncColumn(column string) {
	t.autoIncColumns[column] = struct{}{}
}

// PrimaryKey returns a copy of the primary key columns in discovery order.
func (t *Table) PrimaryKey() []string {
	return slices.Clone(t.primaryKey)
}

// AutoIncColumns returns the auto-increment columns, sorted by name.
func (t *Table) AutoIncColumns() []string {
	cols := make([]string, 0, len(t.autoIncColumns))
	for c := range t.autoIncColumns {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// IsAutoInc reports whether column was marked auto-increment.
func (t *Table) IsAutoInc(column string) bool {
	_, ok := t.autoIncColumns[column]
	return ok
}

// AutoIncPK returns the primary key column when the key is a single column
// that the database auto-increments. ok is false for compound keys, tables
// without a key, and keys that are not auto-increment.
func (t *Table) AutoIncPK() (column string, ok bool) {
	if len(t.primaryKey) != 1 {
		return "", false
	}
	pk := t.primaryKey[0]
	if !t.IsAutoInc(pk) {
		return "", false
	}
	return pk, true
}

// Names projects tables to their names, preserving order.
func Names(tables []*Table) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.name)
	}
	return names
}
