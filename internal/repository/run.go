package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/entity"
)

type RunRepository interface {
	Create(ctx context.Context, run *entity.AnalysisRun) (*entity.AnalysisRun, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisRun, error)
	SetProgress(ctx context.Context, id uuid.UUID, progress int) error
	Complete(ctx context.Context, id uuid.UUID, result json.RawMessage) error
	Fail(ctx context.Context, id uuid.UUID, cause string) error
	Latest(ctx context.Context, projectID uuid.UUID, kind constants.RunKind) (*entity.AnalysisRun, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.AnalysisRun, error)
}

type runRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

func (r *runRepository) Create(ctx context.Context, run *entity.AnalysisRun) (*entity.AnalysisRun, error) {
	rec := *run
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = constants.RunStatusRunning
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, project_id, kind, market, status, progress, result, error, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID.String(), rec.ProjectID.String(), string(rec.Kind), string(rec.Market), string(rec.Status),
		rec.Progress, nullRaw(rec.Result), rec.Error, formatTime(rec.StartedAt), nil)
	if err != nil {
		r.logger.Error("failed to create run", "kind", rec.Kind, "error", err)
		return nil, common.WrapError(err, "create run")
	}
	return &rec, nil
}

func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx, selectRun+` WHERE id = $1`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundf("run %s", id)
	}
	if err != nil {
		r.logger.Error("failed to get run", "run_id", id, "error", err)
		return nil, err
	}
	return run, nil
}

func (r *runRepository) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET progress = $1 WHERE id = $2 AND status = $3`,
		progress, id.String(), string(constants.RunStatusRunning))
	return err
}

func (r *runRepository) Complete(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, progress = 100, result = $2, finished_at = $3 WHERE id = $4`,
		string(constants.RunStatusComplete), string(result), formatTime(time.Now()), id.String())
	if err != nil {
		r.logger.Error("failed to complete run", "run_id", id, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("run %s", id)
	}
	return nil
}

func (r *runRepository) Fail(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
		string(constants.RunStatusFailed), cause, formatTime(time.Now()), id.String())
	if err != nil {
		r.logger.Error("failed to mark run failed", "run_id", id, "error", err)
	}
	return err
}

// Latest returns the most recently started run of the kind, or ErrNotFound
// when the project never ran one.
func (r *runRepository) Latest(ctx context.Context, projectID uuid.UUID, kind constants.RunKind) (*entity.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx,
		selectRun+` WHERE project_id = $1 AND kind = $2 ORDER BY started_at DESC LIMIT 1`,
		projectID.String(), string(kind))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundf("no %s run for project %s", kind, projectID)
	}
	return run, err
}

func (r *runRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.AnalysisRun, error) {
	rows, err := r.db.QueryContext(ctx,
		selectRun+` WHERE project_id = $1 ORDER BY started_at`, projectID.String())
	if err != nil {
		r.logger.Error("failed to list runs", "project_id", projectID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

const selectRun = `SELECT id, project_id, kind, market, status, progress, result, error, started_at, finished_at FROM runs`

func nullRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func scanRun(row rowScanner) (*entity.AnalysisRun, error) {
	var (
		id, projectID, kind, market, status string
		progress                            int
		result, finishedAt                  sql.NullString
		errMsg, startedAt                   string
	)
	if err := row.Scan(&id, &projectID, &kind, &market, &status, &progress, &result, &errMsg, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, err
	}

	run := &entity.AnalysisRun{
		ID:        rid,
		ProjectID: pid,
		Kind:      constants.RunKind(kind),
		Market:    constants.SafeMarket(market),
		Status:    constants.RunStatus(status),
		Progress:  progress,
		Error:     errMsg,
		StartedAt: parseTime(startedAt),
	}
	if result.Valid && result.String != "" {
		run.Result = json.RawMessage(result.String)
	}
	if finishedAt.Valid && finishedAt.String != "" {
		t := parseTime(finishedAt.String)
		run.FinishedAt = &t
	}
	return run, nil
}
