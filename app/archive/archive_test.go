package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagekeep/pagekeep/app/source"
)

func snapshot(url string) *Snapshot {
	return &Snapshot{
		Metadata: map[string]any{"tag": []any{"news"}},
		Time:     time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Source: source.Source{Page: &source.Page{
			Body: "<html><body>hi</body></html>",
			URL:  url,
		}},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	a := &Archiver{Dir: t.TempDir()}

	original := snapshot("https://example.com/a")
	require.NoError(t, a.Write(original))

	paths, err := a.List()
	require.NoError(t, err)
	require.Len(t, paths, 1)

	loaded, err := a.Load(paths[0])
	require.NoError(t, err)

	assert.Equal(t, original.Metadata, loaded.Metadata)
	assert.True(t, original.Time.Equal(loaded.Time), "time changed in round trip")
	require.NotNil(t, loaded.Source.Page)
	assert.Equal(t, original.Source.Page.Body, loaded.Source.Page.Body)
	assert.Equal(t, original.Source.Page.URL, loaded.Source.Page.URL)
}

func TestSnapshotFormat(t *testing.T) {
	// The stored form is keyed by the source variant name.
	a := &Archiver{Dir: t.TempDir()}
	require.NoError(t, a.Write(snapshot("https://example.com/a")))

	paths, err := a.List()
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "source")
	assert.Contains(t, decoded["source"], "Page")
	assert.Contains(t, decoded, "metadata")
	assert.Contains(t, decoded, "time")
}

func TestListOrderIsChronological(t *testing.T) {
	a := &Archiver{Dir: t.TempDir()}

	for _, url := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		require.NoError(t, a.Write(snapshot(url)))
	}

	paths, err := a.List()
	require.NoError(t, err)
	require.Len(t, paths, 3)

	// Lexical file name order equals write order.
	assert.True(t, sort.StringsAreSorted(paths), "paths not in lexical order: %v", paths)

	var urls []string
	for _, path := range paths {
		loaded, err := a.Load(path)
		require.NoError(t, err)
		urls = append(urls, loaded.Source.URL())
	}
	assert.Equal(t, []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}, urls)
}

func TestListMissingDirectory(t *testing.T) {
	a := &Archiver{Dir: filepath.Join(t.TempDir(), "never-created")}

	paths, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	a := &Archiver{Dir: dir}

	path := filepath.Join(dir, "20240601120000000000000.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := a.Load(path)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, path, decodeErr.Path)
}

func TestFilenameWidthIsFixed(t *testing.T) {
	early := filename(time.Date(2024, time.June, 1, 12, 0, 0, 5, time.UTC))
	late := filename(time.Date(2024, time.June, 1, 12, 0, 0, 999999999, time.UTC))

	assert.Len(t, early, len(late))
	assert.Less(t, early, late)
}
