// Package postgres implements database.Dialect for PostgreSQL on top of
// github.com/jackc/pgx/v5.
//
// The jdbc url names a database; Schema reports that database and tables are
// enumerated in the namespace given by the currentSchema parameter ("public"
// when absent).
package postgres

import (
	"context"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/koustreak/yobatis/internal/database"
	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/logger"
)

const (
	defaultPort      = "5432"
	defaultNamespace = "public"
	defaultTimeout   = 2 * time.Second
)

var urlPattern = regexp.MustCompile(`^jdbc:postgresql://([^/]*)/([^?]+)(?:\?(.*))?$`)

var driverClasses = map[string]bool{
	"":                      true,
	"postgres":              true,
	"pgx":                   true,
	"org.postgresql.Driver": true,
}

// Dialect is the PostgreSQL database.Dialect. The zero value logs nothing.
type Dialect struct {
	log *logger.Logger
}

// New returns a Dialect that logs to log.
func New(log *logger.Logger) Dialect {
	return Dialect{log: log}
}

func (d Dialect) logger() *logger.Logger {
	if d.log == nil {
		return logger.Nop()
	}
	return d.log
}

// Name implements database.Dialect.
func (Dialect) Name() string { return "postgres" }

// ParseSchema returns the database segment of a jdbc:postgresql url.
func (Dialect) ParseSchema(rawURL string) (string, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", errs.Newf(errs.ErrKindInvalidConfiguration, "no database found in postgresql url %q", rawURL)
	}
	return m[2], nil
}

// IsAutoIncrement implements database.Dialect.
func (Dialect) IsAutoIncrement(flag string) bool {
	return database.IsTruthyFlag(flag)
}

// Connect opens one pgx connection; no pool is created.
func (d Dialect) Connect(ctx context.Context, params database.ConnParams, schema string) (database.Metadata, error) {
	if !driverClasses[strings.TrimSpace(params.DriverClassName)] {
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration,
			"driver class %q is not a postgresql driver", params.DriverClassName)
	}
	if params.ConnectorJarPath != "" {
		d.logger().Debugf("connector jar %s not loaded: pgx is built in", params.ConnectorJarPath)
	}

	cfg, namespace, err := buildConfig(params, schema)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, mapError(err, "failed to connect")
	}

	d.logger().Debugf("connected to postgresql %s:%d/%s, namespace %s", cfg.Host, cfg.Port, cfg.Database, namespace)
	return newMetadata(conn, namespace), nil
}

// buildConfig translates a jdbc:postgresql url into a pgx config and the
// namespace to enumerate.
func buildConfig(params database.ConnParams, dbName string) (*pgx.ConnConfig, string, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(params.URL))
	if m == nil {
		return nil, "", errs.Newf(errs.ErrKindInvalidConfiguration, "malformed postgresql url %q", params.URL)
	}

	query, err := url.ParseQuery(m[3])
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrKindInvalidConfiguration, "malformed postgresql url parameters", err)
	}

	timeout := defaultTimeout
	if v := query.Get("connectTimeout"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, "", errs.Newf(errs.ErrKindInvalidConfiguration, "connectTimeout must be a non-negative number of seconds, got %q", v)
		}
		timeout = time.Duration(n) * time.Second
	}

	sslMode := query.Get("sslmode")
	if sslMode == "" && strings.EqualFold(query.Get("ssl"), "true") {
		sslMode = "require"
	}

	connURL := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(params.Username, params.Password),
		Host:   firstAddr(m[1]),
		Path:   "/" + dbName,
	}
	if sslMode != "" {
		connURL.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	}

	cfg, err := pgx.ParseConfig(connURL.String())
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrKindInvalidConfiguration, "invalid postgresql connection settings", err)
	}
	cfg.ConnectTimeout = timeout

	namespace := query.Get("currentSchema")
	if namespace == "" {
		namespace = defaultNamespace
	}
	return cfg, namespace, nil
}

func firstAddr(authority string) string {
	host, _, _ := strings.Cut(authority, ",")
	if host == "" {
		host = "localhost"
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		return net.JoinHostPort(strings.Trim(host, "[]"), defaultPort)
	}
	return host
}
