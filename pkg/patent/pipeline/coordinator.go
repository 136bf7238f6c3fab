package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/patentflow/patentflow/pkg/patent/decompose"
	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/fragment"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

// Corpus is one document family's decomposer set. decompose.Grant and
// decompose.App satisfy it.
type Corpus interface {
	// Tag is the document element name the stream splits on.
	Tag() string
	// Relations lists every relation a supersede cycle must clear.
	Relations() []string
	// Identify extracts the document id without decomposing anything else.
	Identify(frag *fragment.Node) (string, error)
	// Primary decomposes the primary record into the batch. Failure here
	// invalidates the whole document.
	Primary(frag *fragment.Node, filename string, b *entity.Batch) error
	// Tasks returns the child decomposers; Primary must have run first.
	Tasks(frag *fragment.Node, b *entity.Batch) []decompose.Task
}

// decomposeDocument fans the child decomposers out over an errgroup scoped
// to this document and folds their results into one batch. Entity-level
// failures are absorbed: the failing entity type is skipped and logged,
// siblings and the primary record are unaffected.
func (p *Pipeline) decomposeDocument(ctx context.Context, frag *fragment.Node, filename string) (*entity.Batch, error) {
	b := &entity.Batch{}
	if err := p.Corpus.Primary(frag, filename, b); err != nil {
		return nil, err
	}
	docID := b.DocID()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}
	for _, t := range p.Corpus.Tasks(frag, b) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			apply, err := t.Run()
			if err != nil {
				ev := p.Log.Warn().Str("doc", docID).Str("entity", t.Entity)
				if fe, ok := internalerr.AsFieldError(err); ok {
					ev = ev.Str("path", fe.Path).Str("value", fe.Value)
				}
				ev.Err(err).Msg("entity skipped")
				return nil
			}
			mu.Lock()
			apply(b)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
