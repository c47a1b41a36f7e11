// Package config loads application configuration from a YAML file with
// environment-variable overrides for the values that differ per deploy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
	"github.com/openadm/restadmin/internal/filestore"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Filestore FilestoreConfig `yaml:"filestore"`
	Logging   LoggingConfig   `yaml:"logging"`
	Admin     AdminConfig     `yaml:"admin"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	// Dialect selects the driver: "postgres" or "mysql".
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`

	MaxConns        int32    `yaml:"max_conns"`
	MinConns        int32    `yaml:"min_conns"`
	MaxConnLifetime Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  Duration `yaml:"connect_timeout"`
	QueryTimeout    Duration `yaml:"query_timeout"`
}

type FilestoreConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AdminConfig struct {
	Title          string `yaml:"title"`
	DefaultPerPage int    `yaml:"default_per_page"`
	MaxPerPage     int    `yaml:"max_per_page"`

	// Attachments maps table names to the columns that hold object-store
	// keys. Those columns get upload and download endpoints when the
	// filestore is enabled.
	Attachments map[string][]string `yaml:"attachments"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() *Config {
	dbDefaults := database.DefaultConfig("")
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			Dialect:         "postgres",
			MaxConns:        dbDefaults.MaxConns,
			MinConns:        dbDefaults.MinConns,
			MaxConnLifetime: Duration(dbDefaults.MaxConnLifetime),
			MaxConnIdleTime: Duration(dbDefaults.MaxConnIdleTime),
			ConnectTimeout:  Duration(dbDefaults.ConnectTimeout),
			QueryTimeout:    Duration(dbDefaults.QueryTimeout),
		},
		Filestore: FilestoreConfig{Bucket: "attachments"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Admin:     AdminConfig{Title: "Admin", DefaultPerPage: 50, MaxPerPage: 1000},
	}
}

// Load reads a YAML config file over the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a configuration from defaults plus environment variables
// only, useful for container deployments without a config file.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// applyEnv overlays RESTADMIN_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RESTADMIN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RESTADMIN_DB_DIALECT"); v != "" {
		c.Database.Dialect = v
	}
	if v := os.Getenv("RESTADMIN_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RESTADMIN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RESTADMIN_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RESTADMIN_TITLE"); v != "" {
		c.Admin.Title = v
	}
	if v := os.Getenv("RESTADMIN_FILESTORE_ENDPOINT"); v != "" {
		c.Filestore.Endpoint = v
		c.Filestore.Enabled = true
	}
	if v := os.Getenv("RESTADMIN_FILESTORE_ACCESS_KEY"); v != "" {
		c.Filestore.AccessKey = v
	}
	if v := os.Getenv("RESTADMIN_FILESTORE_SECRET_KEY"); v != "" {
		c.Filestore.SecretKey = v
	}
	if v := os.Getenv("RESTADMIN_FILESTORE_BUCKET"); v != "" {
		c.Filestore.Bucket = v
	}
	if v := os.Getenv("RESTADMIN_MAX_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Admin.MaxPerPage = n
		}
	}
}

// DatabaseConfig converts the database section into the driver Config.
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		DSN:             c.Database.DSN,
		MaxConns:        c.Database.MaxConns,
		MinConns:        c.Database.MinConns,
		MaxConnLifetime: c.Database.MaxConnLifetime.Std(),
		MaxConnIdleTime: c.Database.MaxConnIdleTime.Std(),
		ConnectTimeout:  c.Database.ConnectTimeout.Std(),
		QueryTimeout:    c.Database.QueryTimeout.Std(),
	}
}

// FilestoreConfig converts the filestore section into the store Config.
func (c *Config) FilestoreConfig() *filestore.Config {
	return &filestore.Config{
		Endpoint:  c.Filestore.Endpoint,
		AccessKey: c.Filestore.AccessKey,
		SecretKey: c.Filestore.SecretKey,
		UseSSL:    c.Filestore.UseSSL,
		Region:    c.Filestore.Region,
		Bucket:    c.Filestore.Bucket,
	}
}
