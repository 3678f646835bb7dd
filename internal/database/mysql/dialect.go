// Package mysql implements database.Dialect for MySQL-family servers
// (MySQL, MariaDB) on top of github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/yobatis/internal/database"
	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/logger"
)

const (
	defaultPort    = "3306"
	defaultTimeout = 2000 * time.Millisecond
)

// jdbc:mysql://host[:port][,host2...]/schema[?k=v&...]
var urlPattern = regexp.MustCompile(`^jdbc:(?:mysql|mariadb)://([^/]*)/([^?]+)(?:\?(.*))?$`)

// driverClasses are the driver names a project may be configured with.
var driverClasses = map[string]bool{
	"":                         true,
	"mysql":                    true,
	"com.mysql.jdbc.Driver":    true,
	"com.mysql.cj.jdbc.Driver": true,
	"org.mariadb.jdbc.Driver":  true,
}

// Dialect is the MySQL-family database.Dialect. The zero value is usable and
// logs nothing.
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
func (Dialect) Name() string { return "mysql" }

// ParseSchema returns the path segment of a jdbc:mysql url.
func (Dialect) ParseSchema(rawURL string) (string, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", errs.Newf(errs.ErrKindInvalidConfiguration, "no schema found in mysql url %q", rawURL)
	}
	return m[2], nil
}

// IsAutoIncrement reads the EXTRA column of information_schema.columns as
// well as JDBC-style YES/true/1 flags.
func (Dialect) IsAutoIncrement(flag string) bool {
	if strings.Contains(strings.ToLower(flag), "auto_increment") {
		return true
	}
	return database.IsTruthyFlag(flag)
}

// Connect opens a single-connection *sql.DB and verifies it with a ping.
func (d Dialect) Connect(ctx context.Context, params database.ConnParams, schema string) (database.Metadata, error) {
	if !driverClasses[strings.TrimSpace(params.DriverClassName)] {
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration,
			"driver class %q is not a mysql driver", params.DriverClassName)
	}
	if params.ConnectorJarPath != "" {
		d.logger().Debugf("connector jar %s not loaded: mysql driver is built in", params.ConnectorJarPath)
	}

	cfg, err := d.buildConfig(params, schema)
	if err != nil {
		return nil, err
	}

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfiguration, "invalid mysql connection settings", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}

	d.logger().Debugf("connected to mysql %s/%s", cfg.Addr, cfg.DBName)
	return newMetadata(db, schema), nil
}

// buildConfig translates a jdbc:mysql url into a driver config.
func (d Dialect) buildConfig(params database.ConnParams, schema string) (*gomysql.Config, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(params.URL))
	if m == nil {
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration, "malformed mysql url %q", params.URL)
	}

	query, err := url.ParseQuery(m[3])
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfiguration, "malformed mysql url parameters", err)
	}

	cfg := gomysql.NewConfig()
	cfg.User = params.Username
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = firstAddr(m[1])
	cfg.DBName = schema

	if cfg.Timeout, err = millis(query, "connectTimeout"); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = millis(query, "socketTimeout"); err != nil {
		return nil, err
	}
	cfg.WriteTimeout = cfg.ReadTimeout

	switch strings.ToLower(query.Get("useSSL")) {
	case "true":
		cfg.TLSConfig = "preferred"
	case "false":
		cfg.TLSConfig = "false"
	}

	var dropped []string
	for k := range query {
		switch k {
		case "connectTimeout", "socketTimeout", "useSSL":
		default:
			dropped = append(dropped, k)
		}
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		d.logger().Debugf("ignoring jdbc url parameters %v", dropped)
	}
	return cfg, nil
}

// firstAddr picks the first host of a jdbc authority and adds the default
// port when none is given.
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

// millis reads a JDBC millisecond timeout parameter.
func millis(query url.Values, key string) (time.Duration, error) {
	v := query.Get(key)
	if v == "" {
		return defaultTimeout, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.Newf(errs.ErrKindInvalidConfiguration, "%s must be a non-negative number of milliseconds, got %q", key, v)
	}
	return time.Duration(n) * time.Millisecond, nil
}
