package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"export-pilot/internal/common"
	"export-pilot/internal/entity"
)

type FileRepository interface {
	Add(ctx context.Context, f *entity.FileRecord) (*entity.FileRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FileRecord, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.FileRecord, error)
	GetBySlot(ctx context.Context, projectID uuid.UUID, slotID string) (*entity.FileRecord, error)
	SetSlot(ctx context.Context, id uuid.UUID, slotID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fileRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewFileRepository(db *sql.DB, logger *slog.Logger) FileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileRepository{db: db, logger: logger}
}

func (r *fileRepository) Add(ctx context.Context, f *entity.FileRecord) (*entity.FileRecord, error) {
	rec := *f
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (id, project_id, slot_id, name, file_size, origin, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID.String(), rec.ProjectID.String(), rec.SlotID, rec.Name, rec.FileSize, rec.Origin,
		formatTime(rec.UploadedAt))
	if err != nil {
		r.logger.Error("failed to add file", "name", rec.Name, "error", err)
		return nil, common.WrapError(err, "add file")
	}
	return &rec, nil
}

func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FileRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, slot_id, name, file_size, origin, uploaded_at
		 FROM files WHERE id = $1`, id.String())
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundf("file %s", id)
	}
	if err != nil {
		r.logger.Error("failed to get file", "file_id", id, "error", err)
		return nil, err
	}
	return f, nil
}

func (r *fileRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]entity.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, slot_id, name, file_size, origin, uploaded_at
		 FROM files WHERE project_id = $1 ORDER BY uploaded_at, id`, projectID.String())
	if err != nil {
		r.logger.Error("failed to list files", "project_id", projectID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *fileRepository) GetBySlot(ctx context.Context, projectID uuid.UUID, slotID string) (*entity.FileRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, slot_id, name, file_size, origin, uploaded_at
		 FROM files WHERE project_id = $1 AND slot_id = $2 ORDER BY uploaded_at LIMIT 1`,
		projectID.String(), slotID)
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundf("slot %s", slotID)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fileRepository) SetSlot(ctx context.Context, id uuid.UUID, slotID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE files SET slot_id = $1 WHERE id = $2`, slotID, id.String())
	if err != nil {
		r.logger.Error("failed to set file slot", "file_id", id, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("file %s", id)
	}
	return nil
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id.String())
	if err != nil {
		r.logger.Error("failed to delete file", "file_id", id, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("file %s", id)
	}
	return nil
}

func scanFile(row rowScanner) (*entity.FileRecord, error) {
	var (
		id, projectID, slotID, name, origin string
		fileSize                            int64
		uploadedAt                          string
	)
	if err := row.Scan(&id, &projectID, &slotID, &name, &fileSize, &origin, &uploadedAt); err != nil {
		return nil, err
	}
	fid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, err
	}
	return &entity.FileRecord{
		ID:         fid,
		ProjectID:  pid,
		SlotID:     slotID,
		Name:       name,
		FileSize:   fileSize,
		Origin:     origin,
		UploadedAt: parseTime(uploadedAt),
	}, nil
}
