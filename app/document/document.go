// Package document defines the unit of truth produced by ingestion and the
// assembly step shared by live ingestion and archive recovery.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is a fully prepared object, ready to be stored and indexed.
// Documents are immutable once assembled.
type Document struct {
	// Unique identifier, generated fresh on every assembly. Never derived
	// from content: re-ingesting a URL must be distinguishable from the
	// original for dedup bookkeeping.
	UUID uuid.UUID

	// Title of the document, typically extracted from the source.
	Title string

	// Original URL.
	URL string

	// Time of indexing.
	Time time.Time

	// Textual content of the document.
	Content Content

	// Other optional fields.
	Metadata map[string]any
}

// Content is a closed union over the supported content variants.
type Content interface {
	// PlainText returns the main content as plain text.
	PlainText() string

	// Kind returns the stored variant tag.
	Kind() string
}

// WebPage is the content of an ingested web page.
type WebPage struct {
	// Main content in plain text.
	Text string

	// Formatted text in Markdown for displaying. If none is present,
	// Text is used.
	RichText *string
}

func (w *WebPage) PlainText() string { return w.Text }

func (w *WebPage) Kind() string { return "webpage" }
