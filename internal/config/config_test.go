package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
datasource:
  url: jdbc:mysql://${db.host}:3306/${db.name}?useSSL=false
  username: ${db.user}
  password: ${db.password}
  driverClassName: com.mysql.cj.jdbc.Driver
  excludeTables: [flyway_schema_history]
properties:
  db.host: localhost
  db.name: yobatis
  db.user: root
  db.password: ""
log:
  level: debug
publish:
  endpoint: localhost:9000
  accessKey: ${s3.access}
  secretKey: ${s3.secret}
  bucket: schemas
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "jdbc:mysql://${db.host}:3306/${db.name}?useSSL=false", cfg.Datasource.URL)
	assert.Equal(t, []string{"flyway_schema_history"}, cfg.Datasource.ExcludeTables)
	assert.Equal(t, "yobatis", cfg.Properties["db.name"])
	assert.False(t, cfg.Lenient)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, defaultAddr, cfg.Server.Addr)
	assert.Equal(t, "schemas", cfg.Publish.Bucket)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, defaultAddr, cfg.Server.Addr)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("datasource:\n  jdbcUrl: x\n"))
	assert.True(t, errs.IsInvalidConfiguration(err))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("datasource: [\n"))
	assert.True(t, errs.IsInvalidConfiguration(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yobatis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${db.user}", cfg.Datasource.Username)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errs.IsInvalidConfiguration(err))
}

func TestConfig_Logger(t *testing.T) {
	cfg, err := Parse(strings.NewReader("log:\n  level: warn\n  format: json\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
