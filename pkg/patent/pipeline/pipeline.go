// Package pipeline streams a bulk XML file document by document: split,
// gate, decompose, commit. One fragment is in memory at a time.
package pipeline

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/fragment"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
	"github.com/patentflow/patentflow/pkg/patent/store"
)

// Pipeline processes one corpus's files against one store partition.
type Pipeline struct {
	Store   store.Store
	Corpus  Corpus
	Classes *classify.Accumulator
	Log     zerolog.Logger
	// Limit bounds concurrent decomposers per document; 0 means unbounded.
	Limit        int
	Force        bool
	ReprocessAll bool
}

// Stats counts document outcomes for one file.
type Stats struct {
	Accepted int
	Skipped  int
	Failed   int
}

// Add folds another file's counts in.
func (s *Stats) Add(o Stats) {
	s.Accepted += o.Accepted
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

// ProcessFile streams every document of one source file. A clean end of
// stream marks the file finished; a truncated stream returns an error and
// leaves the file unfinished so the next run retries it. Documents already
// committed stay committed either way.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, fileID int64) (Stats, error) {
	var stats Stats

	f, err := os.Open(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	if err := p.Store.MarkFileStatus(ctx, fileID, store.StatusUnfinished); err != nil {
		return stats, err
	}

	filename := filepath.Base(path)
	newTok, _ := FileDateToken(filename)

	dec := xml.NewDecoder(f)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%s: %w: %v", filename, internalerr.ErrStreamTruncated, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != p.Corpus.Tag() {
			continue
		}
		frag, err := fragment.Parse(dec, se)
		if err != nil {
			return stats, fmt.Errorf("%s: %w: %v", filename, internalerr.ErrStreamTruncated, err)
		}
		if err := p.processDocument(ctx, frag, filename, newTok, &stats); err != nil {
			return stats, err
		}
	}

	if err := p.Store.MarkFileStatus(ctx, fileID, store.StatusFinished); err != nil {
		return stats, err
	}
	p.Log.Info().Str("file", filename).
		Int("accepted", stats.Accepted).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("file finished")
	return stats, nil
}

// processDocument runs one fragment through gate, decompose and commit.
// Document-scope failures are counted and absorbed; store and context errors
// abort the file.
func (p *Pipeline) processDocument(ctx context.Context, frag *fragment.Node, filename string, newTok int, stats *Stats) error {
	id, err := p.Corpus.Identify(frag)
	if err != nil {
		stats.Failed++
		p.Log.Error().Str("file", filename).Err(err).Msg("document rejected")
		return nil
	}

	existing, found, err := p.Store.ExistsPrimary(ctx, id)
	if err != nil {
		return err
	}
	if found {
		switch d := Decide(newTok, existing, p.Force, p.ReprocessAll); d {
		case Skip:
			stats.Skipped++
			p.Log.Debug().Str("doc", id).Str("kept", existing.Filename).Msg("skipped")
			return nil
		case Supersede:
			if err := p.Store.DeleteDocument(ctx, id, p.Corpus.Relations()); err != nil {
				return err
			}
			p.Log.Info().Str("doc", id).Str("superseded", existing.Filename).Msg("superseded")
		}
	}

	b, err := p.decomposeDocument(ctx, frag, filename)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Failed++
		p.Log.Error().Str("doc", id).Err(err).Msg("document failed")
		return nil
	}
	if err := p.Store.InsertBatch(ctx, b); err != nil {
		if ctx.Err() != nil {
			return err
		}
		stats.Failed++
		p.Log.Error().Str("doc", id).Err(err).Msg("commit failed")
		return nil
	}
	stats.Accepted++
	return nil
}

// FlushClasses writes the run's canonical classification sets once.
func (p *Pipeline) FlushClasses(ctx context.Context) error {
	mains, subs := p.Classes.Len()
	p.Log.Info().Int("mainclasses", mains).Int("subclasses", subs).Msg("flushing canonical classes")
	return p.Classes.Flush(ctx, p.Store)
}
