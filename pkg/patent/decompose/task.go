package decompose

import "github.com/patentflow/patentflow/pkg/patent/entity"

// Apply folds a decomposer's rows into the per-document batch. The
// coordinator serializes Apply calls; Run bodies execute concurrently and
// only read the fragment and the primary record.
type Apply func(*entity.Batch)

// Task is one independently runnable, independently skippable decomposer.
type Task struct {
	Entity string
	Run    func() (Apply, error)
}
