package config

import (
	"strings"

	"github.com/koustreak/yobatis/internal/database"
	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/placeholder"
)

// Resolve substitutes every ${name} token in s with its value from src.
// A missing property fails with InvalidConfiguration unless lenient is set,
// in which case the token is kept verbatim. Substituted values are not
// scanned again.
func Resolve(s string, src Source, lenient bool) (string, error) {
	if !placeholder.Contains(s) {
		return s, nil
	}

	if placeholder.IsPlaceholder(s) {
		name := placeholder.ValueOf(s)
		if v, ok := src.Lookup(name); ok {
			return v, nil
		}
		if lenient {
			return s, nil
		}
		return "", errs.Newf(errs.ErrKindInvalidConfiguration, "property %q is not defined", name)
	}

	var b strings.Builder
	rest := s
	for tok := range placeholder.ExtractAll(s) {
		i := strings.Index(rest, tok)
		b.WriteString(rest[:i])
		rest = rest[i+len(tok):]

		name := placeholder.ValueOf(tok)
		v, ok := src.Lookup(name)
		switch {
		case ok:
			b.WriteString(v)
		case lenient:
			b.WriteString(tok)
		default:
			return "", errs.Newf(errs.ErrKindInvalidConfiguration, "property %q is not defined", name)
		}
	}
	b.WriteString(rest)
	return b.String(), nil
}

// ConnParams resolves the datasource section into connection parameters.
func (c *Config) ConnParams(src Source) (database.ConnParams, error) {
	ds := c.Datasource
	var p database.ConnParams
	fields := []struct {
		name string
		raw  string
		dst  *string
	}{
		{"url", ds.URL, &p.URL},
		{"username", ds.Username, &p.Username},
		{"password", ds.Password, &p.Password},
		{"driverClassName", ds.DriverClassName, &p.DriverClassName},
		{"connectorJarPath", ds.ConnectorJarPath, &p.ConnectorJarPath},
	}

	for _, f := range fields {
		v, err := Resolve(f.raw, src, c.Lenient)
		if err != nil {
			return database.ConnParams{}, errs.Wrap(errs.ErrKindInvalidConfiguration, "datasource."+f.name, err)
		}
		*f.dst = v
	}
	return p, nil
}

// DialectName resolves the datasource dialect field.
func (c *Config) DialectName(src Source) (string, error) {
	return Resolve(c.Datasource.Dialect, src, c.Lenient)
}

// ResolvedPublish returns the publish section with placeholders resolved.
func (c *Config) ResolvedPublish(src Source) (PublishConfig, error) {
	p := c.Publish
	for name, field := range map[string]*string{
		"endpoint":  &p.Endpoint,
		"accessKey": &p.AccessKey,
		"secretKey": &p.SecretKey,
		"region":    &p.Region,
		"bucket":    &p.Bucket,
		"key":       &p.Key,
	} {
		v, err := Resolve(*field, src, c.Lenient)
		if err != nil {
			return PublishConfig{}, errs.Wrap(errs.ErrKindInvalidConfiguration, "publish."+name, err)
		}
		*field = v
	}
	return p, nil
}
