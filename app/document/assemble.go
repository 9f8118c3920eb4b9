package document

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pagekeep/pagekeep/app/convert"
	"github.com/pagekeep/pagekeep/app/extract"
	"github.com/pagekeep/pagekeep/app/source"
)

// ErrNoTitle reports that no title could be derived from any of the title
// sources. A document with no title is an assembly error, not a default.
var ErrNoTitle = errors.New("no title could be derived for the document")

// Assembler turns sources into documents. It is shared between live
// ingestion and archive recovery so both paths produce identical documents
// for identical bytes.
type Assembler struct {
	Converter convert.Converter

	// IncludeTime adds time-derived metadata fields (weekday, month,
	// daypart, season) to every document.
	IncludeTime bool
}

// Assemble builds a Document from a source.
//
// The title is the first non-empty candidate of: the extractor-reported
// title, the markup's Open Graph title, the markup's <title> element.
// Metadata starts from `base` and adds derived fields; the derived keys
// ("host", "description" and the time fields) overwrite caller-supplied
// keys of the same name.
func (a *Assembler) Assemble(ctx context.Context, src source.Source, ext extract.Extractor, base map[string]any, now time.Time) (*Document, error) {
	page := src.Page
	if page == nil {
		return nil, &source.NotImplementedError{Variant: "non-page"}
	}

	pageURL, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing source url %q: %w", page.URL, err)
	}

	readable := ext.Extract(page.Body, pageURL)
	meta := page.Meta()

	title := firstNonEmpty(readable.Title, meta.OGTitle, meta.Title)
	if title == "" {
		return nil, ErrNoTitle
	}

	// The rich representation is advertised as a separate feature, so a
	// failed conversion surfaces instead of silently degrading to plain
	// text.
	markdown, err := a.Converter.Convert(ctx, readable.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering rich text: %w", err)
	}

	metadata := make(map[string]any, len(base)+6)
	for k, v := range base {
		metadata[k] = v
	}
	if host := pageURL.Hostname(); host != "" {
		metadata["host"] = host
	}
	if meta.Description != "" {
		metadata["description"] = meta.Description
	}
	if a.IncludeTime {
		for k, v := range timeFields(now) {
			metadata[k] = v
		}
	}

	return &Document{
		UUID:     uuid.New(),
		Title:    title,
		URL:      page.URL,
		Time:     now,
		Content:  &WebPage{Text: readable.Text, RichText: &markdown},
		Metadata: metadata,
	}, nil
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
