package database

import (
	"strings"

	"github.com/koustreak/yobatis/internal/errs"
)

// ConnParams holds the resolved settings needed to open a metadata connection.
// Values are expected to have had their placeholders resolved already.
type ConnParams struct {
	// Username is required.
	Username string

	// Password may be empty.
	Password string

	// URL is the JDBC-style connection url, required.
	// Example: "jdbc:mysql://localhost:3306/yobatis?useSSL=false"
	URL string

	// DriverClassName names the driver the project was configured with.
	// Optional; dialects only check that it belongs to their family.
	DriverClassName string

	// ConnectorJarPath is where the project keeps its JDBC connector.
	// Optional and informational: drivers are compiled in.
	ConnectorJarPath string
}

// Validate checks the fields every dialect needs.
func (p ConnParams) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return errs.New(errs.ErrKindInvalidConfiguration, "username must not be empty")
	}
	if strings.TrimSpace(p.URL) == "" {
		return errs.New(errs.ErrKindInvalidConfiguration, "url must not be empty")
	}
	return nil
}
