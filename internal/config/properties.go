package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/koustreak/yobatis/internal/errs"
)

// Source looks up property values by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource is a Source backed by a map.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// EnvSource reads the process environment.
type EnvSource struct{}

// Lookup implements Source.
func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Chain consults each source in order and returns the first hit.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// DotenvSource reads a dotenv file without touching the process environment.
func DotenvSource(path string) (MapSource, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfiguration, "failed to read env file "+path, err)
	}
	return MapSource(vars), nil
}

// Sources returns the property lookup order for c: process environment,
// then the dotenv file at envFile (skipped when empty), then c.Properties.
func (c *Config) Sources(envFile string) (Source, error) {
	chain := Chain{EnvSource{}}
	if envFile != "" {
		dotenv, err := DotenvSource(envFile)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dotenv)
	}
	return append(chain, MapSource(c.Properties)), nil
}
