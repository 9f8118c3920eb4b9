// Package database persists document metadata and URL preferences in a
// relational store, separate from the full-text index.
package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/app/document"
	"github.com/pagekeep/pagekeep/app/preferences"
)

type Database interface {
	// Create necessary tables.
	Setup() error

	// Persist an assembled document and its content.
	InsertDocument(ctx context.Context, doc *document.Document) error
	// Look up a document by its unique identifier. Returns nil when there
	// is no such document.
	GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error)
	// Look up the document ingested from the given URL, if any. The
	// ingestion pipeline keeps at most one document per URL.
	GetDocumentByURL(ctx context.Context, url string) (*document.Document, error)
	// Delete a document and its content. Unknown ids are a no-op.
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	// List all persisted documents.
	ListDocuments(ctx context.Context) ([]document.Document, error)

	// Store the preference value for a URL pattern, replacing any
	// previous value.
	SetPreference(ctx context.Context, pattern string, value string) error
	// Remove the preference row for a URL pattern.
	DeletePreference(ctx context.Context, pattern string) error
	// List all stored preference rows. Satisfies preferences.Store.
	ListPreferenceRows(ctx context.Context) ([]preferences.Row, error)

	Close() error
}
