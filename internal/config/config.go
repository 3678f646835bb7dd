// Package config loads yobatis.yaml and resolves the placeholders in it.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/logger"
	"go.yaml.in/yaml/v3"
)

// Config is the content of yobatis.yaml.
type Config struct {
	Datasource Datasource `yaml:"datasource"`

	// Properties is the fallback property source for placeholders.
	Properties map[string]string `yaml:"properties,omitempty"`

	// Lenient leaves unresolved placeholders in place instead of failing.
	Lenient bool `yaml:"lenient,omitempty"`

	Log     LogConfig     `yaml:"log,omitempty"`
	Publish PublishConfig `yaml:"publish,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
}

// Datasource holds the (possibly templated) connection settings.
type Datasource struct {
	// Dialect is optional; it is inferred from the url scheme when empty.
	Dialect          string   `yaml:"dialect,omitempty"`
	URL              string   `yaml:"url"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password,omitempty"`
	DriverClassName  string   `yaml:"driverClassName,omitempty"`
	ConnectorJarPath string   `yaml:"connectorJarPath,omitempty"`
	ExcludeTables    []string `yaml:"excludeTables,omitempty"`
}

// LogConfig mirrors logger.Config for the file format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// PublishConfig describes where snapshots are uploaded. Credentials may be
// placeholders.
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	UseSSL    bool   `yaml:"useSSL,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Key       string `yaml:"key,omitempty"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

const defaultAddr = ":8080"

// Load reads and decodes the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfiguration, "failed to read config "+path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a config document. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.ErrKindInvalidConfiguration, "malformed config", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
}

// Logger builds the logger described by the log section.
func (c *Config) Logger(out io.Writer) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: out,
	})
}
