// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "historia.yaml"
	// DefaultDataDir is the default root for downloaded source datasets.
	DefaultDataDir = "data"
	// DefaultArchiveBaseURL is the digitized-book catalog search endpoint.
	DefaultArchiveBaseURL = "https://archive.org/advancedsearch.php"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Database DatabaseConfig `yaml:"database,omitempty"`
	Data     DataConfig     `yaml:"data,omitempty"`
	Archive  ArchiveConfig  `yaml:"archive,omitempty"`
}

// DatabaseConfig holds configuration for the Postgres entity store.
type DatabaseConfig struct {
	// URL is a lib/pq connection string or DSN.
	URL string `yaml:"url,omitempty"`
}

// DataConfig holds configuration for local source datasets.
type DataConfig struct {
	// Dir is the root directory; each source reads from its own
	// subdirectory (Dir/pleiades, Dir/eclipses, ...).
	Dir string `yaml:"dir,omitempty"`
}

// ArchiveConfig holds configuration for the digitized-book catalog client.
type ArchiveConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: DefaultDataDir,
		},
		Archive: ArchiveConfig{
			BaseURL:        DefaultArchiveBaseURL,
			TimeoutSeconds: 30,
		},
	}
}

// Load loads configuration from the given file, falling back to defaults
// when the file does not exist. A .env file in the working directory is
// read first so DATABASE_URL can live outside version control; explicit
// environment variables win over both.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if dir := os.Getenv("HISTORIA_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if url := os.Getenv("ARCHIVE_BASE_URL"); url != "" {
		c.Archive.BaseURL = url
	}
	if s := os.Getenv("ARCHIVE_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			c.Archive.TimeoutSeconds = n
		}
	}
}

// SourceDataDir returns the dataset directory for a named source.
func (c *Config) SourceDataDir(source string) string {
	return filepath.Join(c.Data.Dir, source)
}
