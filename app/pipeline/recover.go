package pipeline

import (
	"context"
	"errors"
	"fmt"

	slogctx "github.com/veqryn/slog-context"
)

// RecoveryReport summarizes one recovery sweep.
type RecoveryReport struct {
	// Snapshots replayed into the index.
	Recovered int
	// Snapshots skipped because their URL is now blacklisted.
	Skipped int
	// Snapshots that could not be replayed.
	Failed []FileError
}

type FileError struct {
	Path string
	Err  error
}

// Recover replays every archived snapshot through the same assembly and
// indexing path as live ingestion, without re-fetching. Preferences are
// re-resolved at recovery time, so a URL blacklisted since it was archived
// is skipped. Recovery is a best-effort sweep: a snapshot that fails to
// decode or index is reported in the result and does not abort the rest.
func (p *Pipeline) Recover(ctx context.Context) (*RecoveryReport, error) {
	paths, err := p.Archiver.List()
	if err != nil {
		return nil, err
	}

	report := &RecoveryReport{}
	for _, path := range paths {
		err := p.recoverFile(ctx, path)
		switch {
		case errors.Is(err, ErrBlacklisted):
			slogctx.Info(ctx, "Skipping blacklisted snapshot", "file", path)
			report.Skipped++
		case err != nil:
			slogctx.Error(ctx, "Could not recover snapshot", "file", path, "error", err)
			report.Failed = append(report.Failed, FileError{Path: path, Err: err})
		default:
			report.Recovered++
		}
	}

	return report, nil
}

func (p *Pipeline) recoverFile(ctx context.Context, path string) error {
	snapshot, err := p.Archiver.Load(path)
	if err != nil {
		return err
	}

	if snapshot.Source.Page == nil {
		return fmt.Errorf("snapshot holds no supported source")
	}

	url := snapshot.Source.URL()
	ctx = slogctx.Append(ctx, "url", url)

	res := p.resolve(ctx, url)
	if res.Blacklisted {
		return ErrBlacklisted
	}

	return p.indexSource(ctx, snapshot.Source, snapshot.Metadata, res.Preferences, snapshot.Time)
}
