// Package index maintains the on-disk full-text index using SQLite's FTS5
// extension. For more info on FTS5, see the official documentation:
// https://sqlite.org/fts5.html
package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pagekeep/pagekeep/app/document"
)

//go:embed index_setup.sql
var setupCommands string

// ErrQuery marks a malformed search query, as opposed to a storage error.
var ErrQuery = errors.New("invalid search query")

// Hit is one search result.
type Hit struct {
	// Relevance score; higher is better.
	Score float64
	Title string
	UUID  uuid.UUID
	// Excerpt of the content with matched fragments wrapped in "***".
	Snippet string
}

// Index is the full-text index engine. One Index owns its directory
// exclusively; concurrent opens of the same directory by two processes are
// undefined. Reads may run concurrently, writes are serialized internally.
type Index struct {
	conn *sql.DB

	// Guards mutating statements; the engine is single-writer.
	mu sync.Mutex
}

// Open opens the index stored in `dir`, creating the on-disk structure if
// it is absent. Opening an existing index leaves it unchanged.
func Open(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	if _, err := conn.Exec(setupCommands); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting up index schema: %w", err)
	}

	return &Index{conn: conn}, nil
}

// Close flushes and closes the index.
func (ix *Index) Close() error {
	return ix.conn.Close()
}

// Add indexes a document and commits synchronously: once Add returns, the
// document is visible to Search. Returns the engine-internal record id.
func (ix *Index) Add(doc *document.Document) (int64, error) {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return 0, fmt.Errorf("encoding document metadata: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	res, err := ix.conn.Exec(
		"INSERT INTO entries (uuid, title, content, time, metadata) VALUES (?, ?, ?, ?, ?);",
		doc.UUID[:],
		doc.Title,
		doc.Content.PlainText(),
		doc.Time.UTC().Format(time.RFC3339Nano),
		string(metadata),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// Delete removes every record with the given uuid and commits
// synchronously. Deleting a uuid that is not indexed is a no-op.
func (ix *Index) Delete(id uuid.UUID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	_, err := ix.conn.Exec("DELETE FROM entries WHERE uuid = ?;", id[:])
	return err
}

const searchLimit = 10

// Search runs `query` against title, content and metadata and returns the
// top results by relevance, best first. Matched snippet fragments are
// wrapped in "***"; surrounding text is preserved verbatim.
func (ix *Index) Search(query string) ([]Hit, error) {
	rows, err := ix.conn.Query(`
		SELECT
			bm25(entries_fts, 3.0, 1.0, 1.0),
			entries.title,
			entries.uuid,
			snippet(entries_fts, 1, '***', '***', '…', 24)
		FROM entries_fts
		JOIN entries ON entries.id = entries_fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY bm25(entries_fts, 3.0, 1.0, 1.0)
		LIMIT ?;
		`, query, searchLimit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			rank    float64
			title   string
			rawUUID []byte
			snippet string
		)
		if err := rows.Scan(&rank, &title, &rawUUID, &snippet); err != nil {
			return nil, err
		}

		id, err := uuid.FromBytes(rawUUID)
		if err != nil {
			return nil, fmt.Errorf("index record holds an invalid uuid: %w", err)
		}

		// bm25() reports better matches as more negative; flip it so
		// callers see higher-is-better.
		hits = append(hits, Hit{Score: -rank, Title: title, UUID: id, Snippet: snippet})
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return hits, nil
}

// classify separates query-syntax failures from storage errors. The
// sqlite3 driver exposes no structured code for FTS5 parse errors, so they
// are recognized by message.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "unterminated string") {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return err
}
