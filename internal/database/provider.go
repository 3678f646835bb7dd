// Package database turns a live database connection into schema.Table values.
//
// Provider holds resolved connection parameters and a Dialect. Every call to
// Tables opens its own metadata connection and closes it before returning,
// so a Provider carries no connection state between calls.
//
// Usage:
//
//	p, err := database.NewProvider(params, mysql.Dialect{}, database.WithLogger(log))
//	if err != nil { ... }
//	name, err := p.Schema()
//	tables, err := p.Tables(ctx)
package database

import (
	"context"
	"fmt"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/logger"
	"github.com/koustreak/yobatis/internal/schema"
)

// Provider enumerates the tables of one schema through a Dialect.
// A Provider is not meant to be shared between goroutines; use one per caller.
type Provider struct {
	params  ConnParams
	dialect Dialect
	log     *logger.Logger
	exclude map[string]struct{}
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used by the provider. Defaults to logger.Nop().
func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithExcludeTables skips the named tables during enumeration.
func WithExcludeTables(tables ...string) Option {
	return func(p *Provider) {
		for _, t := range tables {
			p.exclude[t] = struct{}{}
		}
	}
}

// NewProvider validates params and returns a Provider for dialect.
func NewProvider(params ConnParams, dialect Dialect, opts ...Option) (*Provider, error) {
	if dialect == nil {
		return nil, errs.New(errs.ErrKindInvalidArgument, "dialect must not be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		params:  params,
		dialect: dialect,
		log:     logger.Nop(),
		exclude: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.log.Infof("detected %s configuration: username=%s url=%s", dialect.Name(), params.Username, params.URL)
	return p, nil
}

// Dialect returns the dialect the provider was built with.
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

// Schema returns the schema named by the connection url.
func (p *Provider) Schema() (string, error) {
	return p.dialect.ParseSchema(p.params.URL)
}

// Tables returns every base table of the schema with its primary key and
// auto-increment columns. The metadata connection is closed on every path.
// Any metadata failure aborts the whole call; no partial result is returned.
func (p *Provider) Tables(ctx context.Context) ([]*schema.Table, error) {
	name, err := p.Schema()
	if err != nil {
		return nil, err
	}

	md, err := p.dialect.Connect(ctx, p.params, name)
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to open %s metadata connection", p.dialect.Name()), err)
	}
	defer func() {
		if cerr := md.Close(); cerr != nil {
			p.log.Warnf("closing %s metadata connection: %v", p.dialect.Name(), cerr)
		}
	}()

	names, err := md.Tables(ctx)
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to list tables of %q", name), err)
	}

	tables := make([]*schema.Table, 0, len(names))
	for _, tableName := range names {
		if _, skip := p.exclude[tableName]; skip {
			p.log.Debugf("skipping excluded table %s", tableName)
			continue
		}
		t, err := p.inspectTable(ctx, md, tableName)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	p.log.With().
		Str("schema", name).
		Int("tables", len(tables)).
		Logger().
		Info("schema introspected")
	return tables, nil
}

func (p *Provider) inspectTable(ctx context.Context, md Metadata, name string) (*schema.Table, error) {
	t, err := schema.NewTable(name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindResourceNotAvailable, "metadata reported a table without a name", err)
	}

	columns, err := md.Columns(ctx, name)
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to read columns of %q", name), err)
	}
	for _, c := range columns {
		if p.dialect.IsAutoIncrement(c.AutoIncrement) {
			t.AddAutoIncColumn(c.Name)
		}
	}

	pks, err := md.PrimaryKeys(ctx, name)
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to read primary key of %q", name), err)
	}
	for _, pk := range pks {
		t.AddPrimaryKey(pk)
	}

	if pk, ok := t.AutoIncPK(); ok {
		p.log.Debugf("table %s: auto-increment primary key %s", name, pk)
	} else {
		p.log.Debugf("table %s: primary key %v, no safe auto-increment key", name, t.PrimaryKey())
	}
	return t, nil
}

// classify keeps configuration errors as they are and reports everything
// else as ResourceNotAvailable.
func classify(msg string, err error) error {
	switch errs.KindOf(err) {
	case errs.ErrKindInvalidConfiguration, errs.ErrKindInvalidArgument:
		return errs.Wrap(errs.KindOf(err), msg, err)
	default:
		return errs.Wrap(errs.ErrKindResourceNotAvailable, msg, err)
	}
}
