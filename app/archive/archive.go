// Package archive persists raw sources as append-only JSON snapshots so
// that previously fetched content can be replayed through indexing without
// re-downloading it.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pagekeep/pagekeep/app/source"
)

// Snapshot is one archived source with all the metadata available at
// ingestion time, including user input.
type Snapshot struct {
	Metadata map[string]any `json:"metadata"`
	Time     time.Time      `json:"time"`
	Source   source.Source  `json:"source"`
}

// DecodeError reports a snapshot file whose content could not be decoded.
// It is a per-file data-integrity error and must not abort a recovery sweep.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode archive file %v: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Archiver writes and reads snapshots in a single directory. Snapshot
// files are never mutated.
type Archiver struct {
	Dir string
}

// Write persists a snapshot. File names are fixed-width UTC timestamps
// with nanosecond precision, so lexical directory order equals
// chronological order.
func (a *Archiver) Write(snapshot *Snapshot) error {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	for {
		path := filepath.Join(a.Dir, filename(time.Now().UTC()))

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			// Two writes landed on the same nanosecond. The clock has
			// advanced by the time we retry.
			continue
		}
		if err != nil {
			return fmt.Errorf("creating archive file: %w", err)
		}

		if _, err := file.Write(data); err != nil {
			file.Close()
			return fmt.Errorf("writing archive file %v: %w", path, err)
		}
		return file.Close()
	}
}

func filename(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%09d", t.Nanosecond()) + ".json"
}

// List returns the paths of every regular file in the archive directory,
// in lexical order. A missing directory is an empty archive.
func (a *Archiver) List() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing archive directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			paths = append(paths, filepath.Join(a.Dir, entry.Name()))
		}
	}
	return paths, nil
}

// Load decodes the snapshot stored at `path`.
func (a *Archiver) Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive file %v: %w", path, err)
	}

	snapshot := &Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return snapshot, nil
}
