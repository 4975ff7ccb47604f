package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"export-pilot/constants"
	"export-pilot/internal/entity"
	"export-pilot/internal/repository"
)

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	ProjectRepo repository.ProjectRepository
	FilesRepo   repository.FileRepository
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
}

func NewFSIngestor(p repository.ProjectRepository, f repository.FileRepository) *FSIngestor {
	return &FSIngestor{
		ProjectRepo: p,
		FilesRepo:   f,
	}
}

func (i *FSIngestor) allowed(ext string) bool {
	if i.AllowedExts == nil {
		return AllowedExt(ext)
	}
	_, ok := i.AllowedExts[constants.NormalizeExt(ext)]
	return ok
}

// IngestPath registers one file. A file with the same name and size already
// present in the project is reported as deduplicated, not re-added.
func (i *FSIngestor) IngestPath(ctx context.Context, projectID uuid.UUID, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	out.SourcePath = abs

	ext := constants.NormalizeExt(filepath.Ext(abs))
	out.FileExt = ext
	if !i.allowed(ext) {
		err := fmt.Errorf("extension %q is not allowed", ext)
		out.Err = err.Error()
		return out, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	if info.IsDir() {
		err := fmt.Errorf("%s is a directory", abs)
		out.Err = err.Error()
		return out, err
	}

	if ok, err := i.ProjectRepo.Exists(ctx, projectID); err != nil {
		out.Err = err.Error()
		return out, err
	} else if !ok {
		err := fmt.Errorf("project %s not found", projectID)
		out.Err = err.Error()
		return out, err
	}

	name := filepath.Base(abs)
	existing, err := i.FilesRepo.ListByProject(ctx, projectID)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	for _, f := range existing {
		if f.Name == name && f.FileSize == info.Size() {
			out.FileID = f.ID.String()
			out.Deduplicated = true
			out.UploadedAt = f.UploadedAt
			return out, nil
		}
	}

	rec, err := i.FilesRepo.Add(ctx, &entity.FileRecord{
		ProjectID: projectID,
		Name:      name,
		FileSize:  info.Size(),
		Origin:    abs,
	})
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	out.FileID = rec.ID.String()
	out.UploadedAt = rec.UploadedAt
	return out, nil
}

// IngestDirectory walks root and registers every matching file. Returns
// per-file results plus aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, projectID uuid.UUID, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	var (
		results []IngestionResult
		stats   DirStats
	)
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("root path is required")
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipHidden && IsHidden(path) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Scanned++
		if skipHidden && IsHidden(path) {
			return nil
		}
		if !i.allowed(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		res, err := i.IngestPath(ctx, projectID, path)
		results = append(results, res)
		switch {
		case err != nil:
			stats.Failed++
		case res.Deduplicated:
			stats.Deduplicated++
		default:
			stats.Succeeded++
		}
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}
