package store

import (
	"context"

	"github.com/patentflow/patentflow/pkg/patent/entity"
)

// File processing states. A file stays "unfinished" from first document to
// clean end of stream, so a crashed run is retried from scratch.
const (
	StatusNew        = "new"
	StatusUnfinished = "unfinished"
	StatusFinished   = "finished"
)

// FileInfo is one source-file registration.
type FileInfo struct {
	ID     int64
	Name   string
	URL    string
	Size   int64
	Date   string
	Status string
}

// ExistingDoc describes an already-stored primary record, with the status of
// the file it came from. The versioning gate decides from these two fields.
type ExistingDoc struct {
	ID         string
	Filename   string
	FileStatus string
}

// Store persists decomposed documents for one corpus partition.
type Store interface {
	Close() error

	// Files
	InsertFile(ctx context.Context, f FileInfo) (int64, error)
	FileByNameOrURL(ctx context.Context, name, url string) (FileInfo, bool, error)
	MarkFileStatus(ctx context.Context, id int64, status string) error

	// Documents
	ExistsPrimary(ctx context.Context, id string) (ExistingDoc, bool, error)
	DeleteDocument(ctx context.Context, id string, relations []string) error
	InsertBatch(ctx context.Context, b *entity.Batch) error

	// Canonical classification sets, flushed once per run.
	FlushClasses(ctx context.Context, mains, subs []string) error
}
