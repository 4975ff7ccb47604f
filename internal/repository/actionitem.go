package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/entity"
)

type ActionItemRepository interface {
	// Replace swaps the whole per-market list, mirroring the full
	// recomputation done by a diagnosis run.
	Replace(ctx context.Context, projectID uuid.UUID, market constants.Market, items []entity.ActionItem) error
	List(ctx context.Context, projectID uuid.UUID, market constants.Market) ([]entity.ActionItem, error)
	SetStatus(ctx context.Context, projectID uuid.UUID, market constants.Market, itemID, status string) error
}

type actionItemRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewActionItemRepository(db *sql.DB, logger *slog.Logger) ActionItemRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &actionItemRepository{db: db, logger: logger}
}

func (r *actionItemRepository) Replace(ctx context.Context, projectID uuid.UUID, market constants.Market, items []entity.ActionItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM action_items WHERE project_id = $1 AND market = $2`,
		projectID.String(), string(market)); err != nil {
		r.logger.Error("failed to clear action items", "project_id", projectID, "error", err)
		return err
	}

	for i, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO action_items (id, project_id, market, priority, item_type, task, status, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, projectID.String(), string(market), string(it.Priority), string(it.Type), it.Task, it.Status, i); err != nil {
			r.logger.Error("failed to insert action item", "item_id", it.ID, "error", err)
			return err
		}
	}
	return tx.Commit()
}

func (r *actionItemRepository) List(ctx context.Context, projectID uuid.UUID, market constants.Market) ([]entity.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, priority, item_type, task, status FROM action_items
		 WHERE project_id = $1 AND market = $2 ORDER BY position`,
		projectID.String(), string(market))
	if err != nil {
		r.logger.Error("failed to list action items", "project_id", projectID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.ActionItem
	for rows.Next() {
		var it entity.ActionItem
		var priority, itemType string
		if err := rows.Scan(&it.ID, &priority, &itemType, &it.Task, &it.Status); err != nil {
			return nil, err
		}
		it.Priority = constants.Priority(priority)
		it.Type = constants.InputType(itemType)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *actionItemRepository) SetStatus(ctx context.Context, projectID uuid.UUID, market constants.Market, itemID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE action_items SET status = $1 WHERE project_id = $2 AND market = $3 AND id = $4`,
		status, projectID.String(), string(market), itemID)
	if err != nil {
		r.logger.Error("failed to update action item", "item_id", itemID, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFoundf("action item %s", itemID)
	}
	return nil
}
