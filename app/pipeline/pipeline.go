// Package pipeline sequences one ingestion: resolve preferences, fetch,
// build the source, archive, deduplicate, assemble and index.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/exp/maps"

	"github.com/pagekeep/pagekeep/app/archive"
	"github.com/pagekeep/pagekeep/app/config"
	"github.com/pagekeep/pagekeep/app/convert"
	"github.com/pagekeep/pagekeep/app/database"
	"github.com/pagekeep/pagekeep/app/document"
	"github.com/pagekeep/pagekeep/app/extract"
	"github.com/pagekeep/pagekeep/app/fetch"
	"github.com/pagekeep/pagekeep/app/index"
	"github.com/pagekeep/pagekeep/app/preferences"
	"github.com/pagekeep/pagekeep/app/source"
)

// ErrBlacklisted reports an ingestion aborted by a blacklist preference.
// Nothing is written anywhere when this is returned.
var ErrBlacklisted = errors.New("url is blacklisted")

// Pipeline holds the process-wide handles. It is constructed once at
// startup, passed into every operation, and torn down with Close.
type Pipeline struct {
	Config    *config.Config
	Fetcher   fetch.Fetcher
	DB        database.Database
	Index     *index.Index
	Resolver  *preferences.Resolver
	Archiver  *archive.Archiver
	Assembler *document.Assembler
}

// New wires a pipeline from configuration and already-opened stores.
func New(cfg *config.Config, db database.Database, ix *index.Index, fetcher fetch.Fetcher) (*Pipeline, error) {
	converter, err := convert.New(cfg.Converter)
	if err != nil {
		return nil, err
	}

	// Fail at startup, not mid-ingestion, if the configured extractor
	// doesn't exist.
	if _, err := extract.New(cfg.Extractor); err != nil {
		return nil, err
	}

	return &Pipeline{
		Config:    cfg,
		Fetcher:   fetcher,
		DB:        db,
		Index:     ix,
		Resolver:  preferences.NewResolver(db),
		Archiver:  &archive.Archiver{Dir: cfg.Paths.Archive},
		Assembler: &document.Assembler{Converter: converter, IncludeTime: cfg.IncludeTime},
	}, nil
}

// Close flushes and closes the index and the metadata store.
func (p *Pipeline) Close() error {
	return errors.Join(p.Index.Close(), p.DB.Close())
}

// Ingest fetches one URL and makes it searchable. When shouldArchive is
// set the raw source is also persisted as a snapshot. A dry run stops
// after assembly validation and writes nothing.
func (p *Pipeline) Ingest(ctx context.Context, url string, tags []string, shouldArchive bool, dryRun bool) error {
	ctx = slogctx.Append(ctx, "url", url)

	res := p.resolve(ctx, url)
	if res.Blacklisted {
		return ErrBlacklisted
	}

	now := time.Now()
	base := map[string]any{"tag": mergeTags(tags, res.Preferences)}

	result, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	contentType := result.ContentType
	if res.Preferences != nil && res.Preferences.ContentType != "" {
		contentType = res.Preferences.ContentType
	}

	src, err := source.Build(result.EffectiveURL, result.Headers, result.Body, contentType)
	if err != nil {
		return err
	}

	if shouldArchive && !dryRun {
		// Archival is a convenience, not a correctness requirement; a
		// failed write is reported but does not abort indexing.
		snapshot := &archive.Snapshot{Metadata: base, Time: now, Source: src}
		if err := p.Archiver.Write(snapshot); err != nil {
			slogctx.Error(ctx, "Could not archive source", "error", err)
		} else {
			slogctx.Info(ctx, "Archived source")
		}
	}

	if dryRun {
		ext, err := p.extractor(res.Preferences)
		if err != nil {
			return err
		}
		_, err = p.Assembler.Assemble(ctx, src, ext, base, now)
		return err
	}

	return p.indexSource(ctx, src, base, res.Preferences, now)
}

// indexSource deduplicates, assembles and indexes one source. It is the
// single path shared by live ingestion and archive recovery, so both
// produce identical documents for identical bytes.
func (p *Pipeline) indexSource(ctx context.Context, src source.Source, base map[string]any, prefs *preferences.Preferences, now time.Time) error {
	// At most one live document may exist per URL. Deleting the old
	// document before inserting the new one means a crash in between
	// leaves a gap, never a duplicate.
	if err := p.deleteExisting(ctx, src.URL()); err != nil {
		return err
	}

	ext, err := p.extractor(prefs)
	if err != nil {
		return err
	}

	doc, err := p.Assembler.Assemble(ctx, src, ext, base, now)
	if err != nil {
		return err
	}

	if _, err := p.Index.Add(doc); err != nil {
		return fmt.Errorf("indexing document: %w", err)
	}

	if err := p.DB.InsertDocument(ctx, doc); err != nil {
		return fmt.Errorf("persisting document metadata: %w", err)
	}

	slogctx.Info(ctx, "Indexed document", "uuid", doc.UUID, "title", doc.Title)
	return nil
}

// deleteExisting retires any previous document for the URL from the index
// and the metadata store.
func (p *Pipeline) deleteExisting(ctx context.Context, url string) error {
	existing, err := p.DB.GetDocumentByURL(ctx, url)
	if err != nil {
		return fmt.Errorf("looking up existing document: %w", err)
	}
	if existing == nil {
		return nil
	}

	slogctx.Info(ctx, "Replacing existing document", "uuid", existing.UUID)
	return p.Delete(ctx, existing.UUID)
}

// Delete removes a document from the index and the metadata store.
// Unknown ids are a no-op.
func (p *Pipeline) Delete(ctx context.Context, id uuid.UUID) error {
	if err := p.Index.Delete(id); err != nil {
		return fmt.Errorf("deleting document from index: %w", err)
	}
	return p.DB.DeleteDocument(ctx, id)
}

// resolve looks up URL preferences. Lookup failure must not abort an
// ingestion: corrupt rows and store errors degrade to defaults, reported
// through the log.
func (p *Pipeline) resolve(ctx context.Context, url string) preferences.Resolution {
	res, err := p.Resolver.Resolve(ctx, url)
	if err != nil {
		var corrupt *preferences.CorruptRowError
		if errors.As(err, &corrupt) {
			slogctx.Error(ctx, "Corrupt URL preferences, using defaults", "pattern", corrupt.Pattern, "error", err)
		} else {
			slogctx.Warn(ctx, "Could not resolve URL preferences, using defaults", "error", err)
		}
		return preferences.Resolution{}
	}
	return res
}

func (p *Pipeline) extractor(prefs *preferences.Preferences) (extract.Extractor, error) {
	if prefs != nil && prefs.Extract != nil {
		return prefs.Extract.New()
	}
	return extract.New(p.Config.Extractor)
}

func mergeTags(tags []string, prefs *preferences.Preferences) []string {
	set := map[string]struct{}{}
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	if prefs != nil {
		for _, tag := range prefs.Tags {
			set[tag] = struct{}{}
		}
	}

	merged := maps.Keys(set)
	sort.Strings(merged)
	return merged
}
