// Package config loads relkitd configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/amadren/relkit/internal/errs"
)

// Engine identifies the database engine a configuration targets.
type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EnginePostgres Engine = "postgres"
	EngineMySQL    Engine = "mysql"
)

// Duration is a time.Duration that unmarshals from YAML scalars written
// either as Go duration strings ("5s", "1m30s") or as plain seconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errs.Wrapf(errs.ErrKindInvalidInput, err, "invalid duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full relkitd configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the engine and its data source.
type DatabaseConfig struct {
	Engine Engine `yaml:"engine"`
	DSN    string `yaml:"dsn"`

	// Schema scopes Postgres introspection; ignored by other engines.
	Schema string `yaml:"schema"`

	// QueryTimeout is the per-request deadline applied by callers.
	QueryTimeout Duration `yaml:"query_timeout"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present: an
// in-memory SQLite database served on :8080.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Engine:       EngineSQLite,
			DSN:          ":memory:",
			QueryTimeout: Duration(30 * time.Second),
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. An empty path skips the file and uses defaults
// plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrapf(errs.ErrKindInvalidInput, err, "read config file %q", path)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrapf(errs.ErrKindInvalidInput, err, "parse config file %q", path)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment. godotenv loading
// (if any) happens in the cmd entry point before this runs.
func (c *Config) applyEnv() {
	if v := os.Getenv("RELKIT_ENGINE"); v != "" {
		c.Database.Engine = Engine(v)
	}
	if v := os.Getenv("RELKIT_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RELKIT_SCHEMA"); v != "" {
		c.Database.Schema = v
	}
	if v := os.Getenv("RELKIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RELKIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RELKIT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("RELKIT_QUERY_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Database.QueryTimeout = Duration(time.Duration(secs) * time.Second)
		}
	}
}

func (c *Config) validate() error {
	switch c.Database.Engine {
	case EngineSQLite, EnginePostgres, EngineMySQL:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown database engine %q", c.Database.Engine)
	}
	if c.Database.DSN == "" {
		return errs.New(errs.ErrKindInvalidInput, "database DSN must not be empty")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrKindInvalidInput, "server address must not be empty")
	}
	if c.Database.QueryTimeout <= 0 {
		c.Database.QueryTimeout = Duration(30 * time.Second)
	}
	return nil
}
