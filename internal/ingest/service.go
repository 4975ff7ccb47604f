package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WatchService pipes watcher events into the ingestor for one project.
type WatchService struct {
	ingestor Ingestor
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewWatchService(ing Ingestor, logger *slog.Logger) *WatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchService{ingestor: ing, logger: logger}
}

// Run starts the watcher and registers every emitted path until ctx is
// cancelled.
func (s *WatchService) Run(ctx context.Context, projectID uuid.UUID, cfg WatchConfig) error {
	evCh, errCh, err := StartWatcher(ctx, cfg)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-evCh:
				if !ok {
					return
				}
				res, err := s.ingestor.IngestPath(ctx, projectID, path)
				switch {
				case err != nil:
					s.logger.Warn("watched file ingest failed", "path", path, "error", err)
				case res.Deduplicated:
					s.logger.Debug("watched file already registered", "path", path)
				default:
					s.logger.Info("watched file registered", "path", path, "file_id", res.FileID)
				}
			case werr, ok := <-errCh:
				if ok && werr != nil {
					s.logger.Error("watcher error", "error", werr)
				}
			}
		}
	}()
	return nil
}

// Close waits for the event loop to drain.
func (s *WatchService) Close(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("watcher shutdown timed out")
	}
}
