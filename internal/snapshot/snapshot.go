// Package snapshot captures the introspected tables of a schema as a
// serialisable document.
package snapshot

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/schema"
	"go.yaml.in/yaml/v3"
)

// Source is anything that can name its schema and enumerate its tables.
// *database.Provider satisfies it.
type Source interface {
	Schema() (string, error)
	Tables(ctx context.Context) ([]*schema.Table, error)
}

// Snapshot is the serialised form of one introspection run.
type Snapshot struct {
	Schema  string          `json:"schema" yaml:"schema"`
	Dialect string          `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	TakenAt time.Time       `json:"takenAt" yaml:"takenAt"`
	Tables  []TableSnapshot `json:"tables" yaml:"tables"`
}

// TableSnapshot is one table of a Snapshot.
type TableSnapshot struct {
	Name                 string   `json:"name" yaml:"name"`
	PrimaryKey           []string `json:"primaryKey" yaml:"primaryKey"`
	AutoIncrementColumns []string `json:"autoIncrementColumns" yaml:"autoIncrementColumns"`

	// AutoIncPK is the single auto-increment primary key column, nil when
	// the table has none or a composite key.
	AutoIncPK *string `json:"autoIncPK" yaml:"autoIncPK"`
}

// New builds a Snapshot from tables, keeping their order.
func New(schemaName, dialect string, tables []*schema.Table) *Snapshot {
	s := &Snapshot{
		Schema:  schemaName,
		Dialect: dialect,
		TakenAt: time.Now().UTC(),
		Tables:  make([]TableSnapshot, 0, len(tables)),
	}
	for _, t := range tables {
		pk := t.PrimaryKey()
		if pk == nil {
			pk = []string{}
		}
		ts := TableSnapshot{
			Name:                 t.Name(),
			PrimaryKey:           pk,
			AutoIncrementColumns: t.AutoIncColumns(),
		}
		if col, ok := t.AutoIncPK(); ok {
			ts.AutoIncPK = &col
		}
		s.Tables = append(s.Tables, ts)
	}
	return s
}

// Take introspects src and returns the result as a Snapshot.
func Take(ctx context.Context, src Source, dialect string) (*Snapshot, error) {
	name, err := src.Schema()
	if err != nil {
		return nil, err
	}
	tables, err := src.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return New(name, dialect, tables), nil
}

// Table returns the snapshot of the named table.
func (s *Snapshot) Table(name string) (*TableSnapshot, error) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], nil
		}
	}
	return nil, errs.Newf(errs.ErrKindNotFound, "table %q not found in schema %q", name, s.Schema)
}

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
// An empty name selects JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidArgument, "unsupported snapshot format %q", name)
	}
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Encode writes s to w in format f.
func (s *Snapshot) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "failed to encode snapshot", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "failed to encode snapshot", err)
		}
		if err := enc.Close(); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "failed to encode snapshot", err)
		}
		return nil
	default:
		return errs.Newf(errs.ErrKindInvalidArgument, "unsupported snapshot format %q", string(f))
	}
}
