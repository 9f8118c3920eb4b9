package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadMissingFileGivesDefaults(t *testing.T) {
	config, err := Read(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}

	if config.Extractor != "readability" {
		t.Fatalf("unexpected default extractor: %v", config.Extractor)
	}
	if config.Converter != "library" {
		t.Fatalf("unexpected default converter: %v", config.Converter)
	}
	if !config.IncludeTime {
		t.Fatal("expected time metadata to default to on")
	}
	if config.Paths.Database == "" || config.Paths.Index == "" || config.Paths.Archive == "" {
		t.Fatalf("expected default paths, got: %+v", config.Paths)
	}
}

func TestReadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
paths:
  database: /data/meta.db
  index: /data/index
extractor: plain
includeTime: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Paths.Database != "/data/meta.db" {
		t.Fatalf("unexpected database path: %v", config.Paths.Database)
	}
	if config.Paths.Index != "/data/index" {
		t.Fatalf("unexpected index path: %v", config.Paths.Index)
	}
	// Keys absent from the file keep their defaults.
	if config.Paths.Archive != "./archive" {
		t.Fatalf("unexpected archive path: %v", config.Paths.Archive)
	}
	if config.Extractor != "plain" {
		t.Fatalf("unexpected extractor: %v", config.Extractor)
	}
	if config.IncludeTime {
		t.Fatal("expected time metadata to be off")
	}
}

func TestReadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("{unbalanced"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(path); err == nil {
		t.Fatal("expected an error for an invalid configuration file")
	}
}
