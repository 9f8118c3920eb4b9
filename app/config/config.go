package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths struct {
		// Path of the SQLite database holding document metadata and URL preferences.
		Database string
		// Directory holding the full-text index. Owned exclusively by the index engine.
		Index string
		// Directory where raw source snapshots are archived.
		Archive string
	}

	// Name of the registered extractor used when URL preferences don't select one.
	Extractor string

	// Markdown converter: "library" (built-in) or "pandoc" (external process).
	Converter string

	// Whether to add time-derived fields (weekday, month, daypart, season)
	// to document metadata.
	IncludeTime bool `yaml:"includeTime"`
}

// Read loads the configuration file at `path`. A missing file is not an
// error; defaults are returned instead.
func Read(path string) (*Config, error) {
	config := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid configuration file %v: %w", path, err)
	}

	return config, nil
}

func defaults() *Config {
	config := &Config{}
	config.Paths.Database = "./pagekeep.db"
	config.Paths.Index = "./index"
	config.Paths.Archive = "./archive"
	config.Extractor = "readability"
	config.Converter = "library"
	config.IncludeTime = true
	return config
}

// DefaultPath returns the conventional location of the configuration file,
// next to the data directory if XDG_CONFIG_HOME is set.
func DefaultPath() string {
	if dir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return filepath.Join(dir, "pagekeep", "config.yml")
	}
	return "./config.yml"
}
