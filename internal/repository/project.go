package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/entity"
)

type ProjectRepository interface {
	Create(ctx context.Context, name string, market constants.Market) (*entity.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	SetMarket(ctx context.Context, id uuid.UUID, market constants.Market) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type projectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewProjectRepository(db *sql.DB, logger *slog.Logger) ProjectRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &projectRepository{db: db, logger: logger}
}

func (r *projectRepository) Create(ctx context.Context, name string, market constants.Market) (*entity.Project, error) {
	p := &entity.Project{
		ID:        uuid.New(),
		Name:      name,
		Market:    market,
		CreatedAt: time.Now().UTC(),
	}
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, market, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID.String(), p.Name, string(p.Market), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		r.logger.Error("failed to create project", "name", name, "error", err)
		return nil, common.WrapError(err, "create project")
	}
	return p, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, market, created_at, updated_at FROM projects WHERE id = $1`, id.String())
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundf("project %s", id)
	}
	if err != nil {
		r.logger.Error("failed to get project", "project_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*entity.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, market, created_at, updated_at FROM projects ORDER BY created_at`)
	if err != nil {
		r.logger.Error("failed to list projects", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return r.update(ctx, id, `UPDATE projects SET name = $1, updated_at = $2 WHERE id = $3`, name)
}

func (r *projectRepository) SetMarket(ctx context.Context, id uuid.UUID, market constants.Market) error {
	return r.update(ctx, id, `UPDATE projects SET market = $1, updated_at = $2 WHERE id = $3`, string(market))
}

func (r *projectRepository) update(ctx context.Context, id uuid.UUID, query, value string) error {
	res, err := r.db.ExecContext(ctx, query, value, formatTime(time.Now()), id.String())
	if err != nil {
		r.logger.Error("failed to update project", "project_id", id, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("project %s", id)
	}
	return nil
}

// Delete removes the project and cascades its files, runs and action items.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM action_items WHERE project_id = $1`,
		`DELETE FROM runs WHERE project_id = $1`,
		`DELETE FROM files WHERE project_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id.String()); err != nil {
			r.logger.Error("failed to delete project children", "project_id", id, "error", err)
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id.String())
	if err != nil {
		r.logger.Error("failed to delete project", "project_id", id, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("project %s", id)
	}
	return tx.Commit()
}

func (r *projectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = $1`, id.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("failed to check project existence", "project_id", id, "error", err)
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var (
		id, name, market     string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &name, &market, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &entity.Project{
		ID:        pid,
		Name:      name,
		Market:    constants.SafeMarket(market),
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseTime(updatedAt),
	}, nil
}
