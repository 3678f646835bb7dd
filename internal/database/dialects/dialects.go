// Package dialects picks the database.Dialect for a configuration.
package dialects

import (
	"strings"

	"github.com/koustreak/yobatis/internal/database"
	"github.com/koustreak/yobatis/internal/database/mysql"
	"github.com/koustreak/yobatis/internal/database/postgres"
	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/logger"
)

// Names lists the supported dialect names.
var Names = []string{"mysql", "postgres"}

// ByName returns the dialect called name. "mariadb" is an alias of "mysql"
// and "postgresql" of "postgres".
func ByName(name string, log *logger.Logger) (database.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return mysql.New(log), nil
	case "postgres", "postgresql":
		return postgres.New(log), nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration, "unsupported dialect %q (supported: %v)", name, Names)
	}
}

// ForURL infers the dialect from a jdbc url scheme.
func ForURL(url string, log *logger.Logger) (database.Dialect, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(url), "jdbc:")
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration, "url %q is not a jdbc url", url)
	}
	scheme, _, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidConfiguration, "url %q has no scheme", url)
	}
	return ByName(scheme, log)
}

// Resolve returns ByName(name) when name is set and ForURL(url) otherwise.
func Resolve(name, url string, log *logger.Logger) (database.Dialect, error) {
	if strings.TrimSpace(name) != "" {
		return ByName(name, log)
	}
	return ForURL(url, log)
}
