// Package run drives one corpus ingestion end to end: source files in,
// relational rows out, canonical classes flushed last. Both commands share
// it and differ only in the corpus they hand over.
package run

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/patentflow/patentflow/internal/fetch"
	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/config"
	"github.com/patentflow/patentflow/pkg/patent/pipeline"
	"github.com/patentflow/patentflow/pkg/patent/store"
	"github.com/patentflow/patentflow/pkg/patent/store/sqlite"
)

// Options are the per-invocation switches on top of the configuration file.
type Options struct {
	// Parse names a local XML file to process instead of the listing.
	Parse string
	// ParseAll, with Force, reprocesses finished files and re-gates their
	// documents.
	ParseAll bool
	Force    bool
}

// Run executes one corpus run. primary selects the store partition's primary
// relation.
func Run(ctx context.Context, corpus pipeline.Corpus, classes *classify.Accumulator, primary string, cfg config.Config, opts Options, log zerolog.Logger) error {
	st, err := sqlite.OpenSQLite(ctx, cfg.DBPath, primary)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	p := &pipeline.Pipeline{
		Store:        st,
		Corpus:       corpus,
		Classes:      classes,
		Log:          log,
		Limit:        cfg.DecomposerLimit,
		Force:        opts.Force,
		ReprocessAll: opts.ParseAll,
	}

	var total pipeline.Stats
	process := func(path string, fileID int64) error {
		if err := fetch.Repair(path); err != nil {
			return fmt.Errorf("repair %s: %w", path, err)
		}
		stats, err := p.ProcessFile(ctx, path, fileID)
		total.Add(stats)
		if err != nil {
			return fmt.Errorf("process %s: %w", path, err)
		}
		return nil
	}

	if opts.Parse != "" {
		if err := runLocal(ctx, st, cfg, opts.Parse, process); err != nil {
			return err
		}
	} else {
		if err := runListing(ctx, st, cfg, opts, log, process); err != nil {
			return err
		}
	}

	if err := p.FlushClasses(ctx); err != nil {
		return fmt.Errorf("flush classes: %w", err)
	}
	log.Info().
		Int("accepted", total.Accepted).
		Int("skipped", total.Skipped).
		Int("failed", total.Failed).
		Msg("run complete")
	return nil
}

// runLocal registers and processes one already-downloaded file.
func runLocal(ctx context.Context, st store.Store, cfg config.Config, name string, process func(string, int64) error) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.WorkDir, path)
	}
	id, err := st.InsertFile(ctx, store.FileInfo{
		Name:   filepath.Base(path),
		Status: store.StatusNew,
	})
	if err != nil {
		return err
	}
	return process(path, id)
}

// runListing scrapes the bulk listing and works through every zip not yet
// finished.
func runListing(ctx context.Context, st store.Store, cfg config.Config, opts Options, log zerolog.Logger, process func(string, int64) error) error {
	if cfg.ListingURL == "" {
		return fmt.Errorf("no listing URL configured and no -parse file given")
	}
	files, err := fetch.Listing(ctx, http.DefaultClient, cfg.ListingURL)
	if err != nil {
		return fmt.Errorf("listing: %w", err)
	}
	log.Info().Int("files", len(files)).Str("url", cfg.ListingURL).Msg("listing scraped")

	for _, f := range files {
		known, found, err := st.FileByNameOrURL(ctx, f.Name, f.URL)
		if err != nil {
			return err
		}
		if found && known.Status == store.StatusFinished && !(opts.ParseAll && opts.Force) {
			log.Debug().Str("file", f.Name).Msg("already finished")
			continue
		}

		zipPath, err := fetch.Download(ctx, http.DefaultClient, f.URL, cfg.WorkDir)
		if err != nil {
			return fmt.Errorf("download %s: %w", f.URL, err)
		}
		paths, err := fetch.Extract(zipPath, cfg.WorkDir)
		if err != nil {
			return fmt.Errorf("extract %s: %w", zipPath, err)
		}
		for _, path := range paths {
			id, err := st.InsertFile(ctx, store.FileInfo{
				Name:   filepath.Base(path),
				URL:    f.URL,
				Size:   f.Size,
				Date:   f.Date,
				Status: store.StatusNew,
			})
			if err != nil {
				return err
			}
			if err := process(path, id); err != nil {
				return err
			}
		}
	}
	return nil
}
