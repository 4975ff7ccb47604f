// Package ingest registers local documents into the project file repository,
// either one path at a time or by watching directories.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	FileID       string
	Deduplicated bool
	FileExt      string
	UploadedAt   time.Time
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the watcher service depends on.
type Ingestor interface {
	// IngestPath registers a single path.
	IngestPath(ctx context.Context, projectID uuid.UUID, path string) (IngestionResult, error)
	// IngestDirectory registers all matching files under root.
	IngestDirectory(ctx context.Context, projectID uuid.UUID, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
