package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"export-pilot/constants"
	"export-pilot/internal/repository"
)

func newIngestor(t *testing.T) (*FSIngestor, uuid.UUID) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn, MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	projects := repository.NewProjectRepository(db, nil)
	files := repository.NewFileRepository(db, nil)
	p, err := projects.Create(context.Background(), "p", constants.MarketEU)
	require.NoError(t, err)

	return NewFSIngestor(projects, files), p.ID
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".pdf"))
	assert.True(t, AllowedExt("XLSX"))
	assert.False(t, AllowedExt(".exe"))
	assert.False(t, AllowedExt(""))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.git"))
	assert.True(t, IsHidden(".env"))
	assert.False(t, IsHidden("/tmp/docs/spec.pdf"))
}

func TestIngestPath(t *testing.T) {
	ing, projectID := newIngestor(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "RT100_BOM.xlsx", "a,b,c")

	res, err := ing.IngestPath(context.Background(), projectID, path)
	require.NoError(t, err)
	assert.NotEmpty(t, res.FileID)
	assert.False(t, res.Deduplicated)
	assert.Equal(t, "xlsx", res.FileExt)

	rec, err := ing.FilesRepo.GetByID(context.Background(), uuid.MustParse(res.FileID))
	require.NoError(t, err)
	assert.Equal(t, "RT100_BOM.xlsx", rec.Name)
	assert.EqualValues(t, 5, rec.FileSize)
}

func TestIngestPathDeduplicates(t *testing.T) {
	ing, projectID := newIngestor(t)
	path := writeFile(t, t.TempDir(), "spec.pdf", "body")

	first, err := ing.IngestPath(context.Background(), projectID, path)
	require.NoError(t, err)
	second, err := ing.IngestPath(context.Background(), projectID, path)
	require.NoError(t, err)

	assert.True(t, second.Deduplicated)
	assert.Equal(t, first.FileID, second.FileID)

	list, err := ing.FilesRepo.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIngestPathRejectsDisallowedExtension(t *testing.T) {
	ing, projectID := newIngestor(t)
	path := writeFile(t, t.TempDir(), "malware.exe", "x")

	res, err := ing.IngestPath(context.Background(), projectID, path)
	assert.Error(t, err)
	assert.NotEmpty(t, res.Err)
}

func TestIngestPathCustomAllowedExts(t *testing.T) {
	ing, projectID := newIngestor(t)
	ing.AllowedExts = map[string]struct{}{"log": {}}
	dir := t.TempDir()

	_, err := ing.IngestPath(context.Background(), projectID, writeFile(t, dir, "run.log", "x"))
	require.NoError(t, err)

	// The override replaces the default set entirely.
	_, err = ing.IngestPath(context.Background(), projectID, writeFile(t, dir, "spec.pdf", "x"))
	assert.Error(t, err)
}

func TestIngestPathRejectsDirectory(t *testing.T) {
	ing, projectID := newIngestor(t)
	dir := filepath.Join(t.TempDir(), "sub.pdf")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := ing.IngestPath(context.Background(), projectID, dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestIngestPathUnknownProject(t *testing.T) {
	ing, _ := newIngestor(t)
	path := writeFile(t, t.TempDir(), "spec.pdf", "x")

	_, err := ing.IngestPath(context.Background(), uuid.New(), path)
	assert.ErrorContains(t, err, "not found")
}

func TestIngestDirectory(t *testing.T) {
	ing, projectID := newIngestor(t)
	dir := t.TempDir()
	writeFile(t, dir, "RT100_BOM.xlsx", "a")
	writeFile(t, dir, "RT100_설계.stp", "b")
	writeFile(t, dir, "notes.txt", "skip me")
	writeFile(t, dir, ".hidden.pdf", "skip me too")

	results, stats, err := ing.IngestDirectory(context.Background(), projectID, dir, true)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.EqualValues(t, 4, stats.Scanned)
	assert.EqualValues(t, 2, stats.Matched)
	assert.EqualValues(t, 2, stats.Succeeded)
	assert.EqualValues(t, 0, stats.Failed)

	// A second pass only deduplicates.
	_, stats, err = ing.IngestDirectory(context.Background(), projectID, dir, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Deduplicated)
	assert.EqualValues(t, 0, stats.Succeeded)
}

func TestIngestDirectoryEmptyRoot(t *testing.T) {
	ing, projectID := newIngestor(t)
	_, _, err := ing.IngestDirectory(context.Background(), projectID, "  ", true)
	assert.Error(t, err)
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spec.pdf", "x")
	writeFile(t, dir, "skip.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true})
	require.NoError(t, err)

	select {
	case path := <-evCh:
		assert.Equal(t, "spec.pdf", filepath.Base(path))
	case <-time.After(2 * time.Second):
		t.Fatal("no initial scan event")
	}
}

func TestWatcherShutdownWithPendingDebounce(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)

	// Queue a debounced event, then cancel while the timer may still fire.
	writeFile(t, dir, "spec.pdf", "x")
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-evCh:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close")
		}
	}
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
