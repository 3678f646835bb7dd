package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeURL = regexp.MustCompile(`^jdbc:fake://[^/]+/([^?]+)`)

type fakeTable struct {
	columns []Column
	pks     []string
}

type fakeDialect struct {
	tables     []string
	byName     map[string]fakeTable
	connectErr error
	listErr    error
	columnErr  map[string]error

	opened int
	closed int
}

func (d *fakeDialect) Name() string { return "fake" }

func (d *fakeDialect) ParseSchema(url string) (string, error) {
	m := fakeURL.FindStringSubmatch(url)
	if m == nil {
		return "", errs.Newf(errs.ErrKindInvalidConfiguration, "no schema in %q", url)
	}
	return m[1], nil
}

func (d *fakeDialect) Connect(_ context.Context, _ ConnParams, _ string) (Metadata, error) {
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	d.opened++
	return &fakeMetadata{d: d}, nil
}

func (d *fakeDialect) IsAutoIncrement(flag string) bool { return IsTruthyFlag(flag) }

type fakeMetadata struct{ d *fakeDialect }

func (m *fakeMetadata) Tables(context.Context) ([]string, error) {
	return m.d.tables, m.d.listErr
}

func (m *fakeMetadata) Columns(_ context.Context, table string) ([]Column, error) {
	if err := m.d.columnErr[table]; err != nil {
		return nil, err
	}
	return m.d.byName[table].columns, nil
}

func (m *fakeMetadata) PrimaryKeys(_ context.Context, table string) ([]string, error) {
	return m.d.byName[table].pks, nil
}

func (m *fakeMetadata) Close() error {
	m.d.closed++
	return nil
}

func shopDialect() *fakeDialect {
	return &fakeDialect{
		tables: []string{"orders", "order_items", "audit_log"},
		byName: map[string]fakeTable{
			"orders": {
				columns: []Column{{Name: "order_id", AutoIncrement: "YES"}, {Name: "placed_at", AutoIncrement: "NO"}},
				pks:     []string{"order_id"},
			},
			"order_items": {
				columns: []Column{{Name: "order_id", AutoIncrement: "yes"}, {Name: "line_no", AutoIncrement: ""}},
				pks:     []string{"order_id", "line_no"},
			},
			"audit_log": {
				columns: []Column{{Name: "message"}},
			},
		},
	}
}

func validParams() ConnParams {
	return ConnParams{
		Username: "root",
		URL:      "jdbc:fake://localhost:3306/yobatis?useSSL=false",
	}
}

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  ConnParams
		dialect Dialect
		check   func(error) bool
	}{
		{"missing username", ConnParams{URL: "jdbc:fake://h/db"}, &fakeDialect{}, errs.IsInvalidConfiguration},
		{"blank url", ConnParams{Username: "root", URL: "  "}, &fakeDialect{}, errs.IsInvalidConfiguration},
		{"nil dialect", validParams(), nil, errs.IsInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.params, tt.dialect)
			assert.Nil(t, p)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestNewProvider_EmptyPasswordAllowed(t *testing.T) {
	p, err := NewProvider(validParams(), &fakeDialect{})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestProvider_Schema(t *testing.T) {
	p, err := NewProvider(validParams(), &fakeDialect{})
	require.NoError(t, err)

	name, err := p.Schema()
	require.NoError(t, err)
	assert.Equal(t, "yobatis", name)
}

func TestProvider_SchemaMissing(t *testing.T) {
	params := validParams()
	params.URL = "jdbc:fake://localhost:3306"
	d := &fakeDialect{}
	p, err := NewProvider(params, d)
	require.NoError(t, err)

	_, err = p.Schema()
	assert.True(t, errs.IsInvalidConfiguration(err))

	_, err = p.Tables(context.Background())
	assert.True(t, errs.IsInvalidConfiguration(err))
	assert.Zero(t, d.opened)
}

func TestProvider_Tables(t *testing.T) {
	d := shopDialect()
	p, err := NewProvider(validParams(), d)
	require.NoError(t, err)

	tables, err := p.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, []string{"orders", "order_items", "audit_log"}, schema.Names(tables))

	pk, ok := tables[0].AutoIncPK()
	assert.True(t, ok)
	assert.Equal(t, "order_id", pk)

	_, ok = tables[1].AutoIncPK()
	assert.False(t, ok)
	assert.Equal(t, []string{"order_id", "line_no"}, tables[1].PrimaryKey())
	assert.True(t, tables[1].IsAutoInc("order_id"))

	assert.Empty(t, tables[2].PrimaryKey())
	assert.Empty(t, tables[2].AutoIncColumns())

	assert.Equal(t, 1, d.opened)
	assert.Equal(t, 1, d.closed)
}

func TestProvider_TablesEmptySchema(t *testing.T) {
	d := &fakeDialect{}
	p, err := NewProvider(validParams(), d)
	require.NoError(t, err)

	tables, err := p.Tables(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
	assert.Equal(t, 1, d.closed)
}

func TestProvider_TablesExclude(t *testing.T) {
	p, err := NewProvider(validParams(), shopDialect(), WithExcludeTables("audit_log"))
	require.NoError(t, err)

	tables, err := p.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "order_items"}, schema.Names(tables))
}

func TestProvider_TablesFailFast(t *testing.T) {
	d := shopDialect()
	d.columnErr = map[string]error{"order_items": errors.New("connection reset")}
	p, err := NewProvider(validParams(), d)
	require.NoError(t, err)

	tables, err := p.Tables(context.Background())
	assert.Nil(t, tables)
	assert.True(t, errs.IsResourceNotAvailable(err))
	assert.Contains(t, err.Error(), "order_items")
	assert.Equal(t, 1, d.closed, "connection must be released on failure")
}

func TestProvider_TablesListFailure(t *testing.T) {
	d := shopDialect()
	d.listErr = errors.New("access denied")
	p, err := NewProvider(validParams(), d)
	require.NoError(t, err)

	_, err = p.Tables(context.Background())
	assert.True(t, errs.IsResourceNotAvailable(err))
	assert.Equal(t, 1, d.closed)
}

func TestProvider_TablesConnectFailure(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"network", errors.New("dial tcp: connection refused"), errs.IsResourceNotAvailable},
		{"bad driver", errs.New(errs.ErrKindInvalidConfiguration, "unsupported driver"), errs.IsInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := shopDialect()
			d.connectErr = tt.err
			p, err := NewProvider(validParams(), d)
			require.NoError(t, err)

			_, err = p.Tables(context.Background())
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Zero(t, d.closed)
		})
	}
}

func TestProvider_NoStateBetweenCalls(t *testing.T) {
	d := shopDialect()
	p, err := NewProvider(validParams(), d)
	require.NoError(t, err)

	first, err := p.Tables(context.Background())
	require.NoError(t, err)
	second, err := p.Tables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, schema.Names(first), schema.Names(second))
	assert.Equal(t, 2, d.opened)
	assert.Equal(t, 2, d.closed)
}

func TestIsTruthyFlag(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"YES", true},
		{"yes", true},
		{"True", true},
		{"1", true},
		{"-1", true},
		{"NO", false},
		{"0", false},
		{"", false},
		{"  ", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruthyFlag(tt.flag))
		})
	}
}
