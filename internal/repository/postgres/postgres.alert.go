// FilePath: internal/repository/postgres/postgres.alert.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
)

type AlertRepo struct {
	PostgresBaseRepo
}

func NewAlertRepository(db database.DB) *AlertRepo {
	repo := &PostgresBaseRepo{db: db}
	return &AlertRepo{PostgresBaseRepo: *repo}
}

func (r *AlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (
			id, device_id, temperature, status, message,
			acknowledged, acknowledged_by, acknowledged_at, created_at
		) VALUES (
			:id, :device_id, :temperature, :status, :message,
			:acknowledged, :acknowledged_by, :acknowledged_at, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, alert)
	if err != nil {
		return errors.NewDatabaseError("failed to create alert", err)
	}
	return nil
}

func (r *AlertRepo) Get(ctx context.Context, id string) (*models.Alert, error) {
	alert := &models.Alert{}
	query := `SELECT * FROM alerts WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, alert, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("alert not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get alert", err)
	}
	return alert, nil
}

func (r *AlertRepo) List(ctx context.Context, filters models.AlertFilters) ([]*models.Alert, error) {
	query := `SELECT * FROM alerts WHERE 1=1`
	args := []interface{}{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filters.Acknowledged != nil {
		args = append(args, *filters.Acknowledged)
		query += fmt.Sprintf(` AND acknowledged = $%d`, len(args))
	}
	if filters.DeviceID != "" {
		args = append(args, filters.DeviceID)
		query += fmt.Sprintf(` AND device_id = $%d`, len(args))
	}

	limit := filters.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	alerts := []*models.Alert{}
	err := r.db.GetDB().SelectContext(ctx, &alerts, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list alerts", err)
	}
	return alerts, nil
}

func (r *AlertRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.Alert, error) {
	if len(ids) == 0 {
		return []*models.Alert{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM alerts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.NewInternalError("failed to build alert query", err)
	}
	query = r.db.GetDB().Rebind(query)

	alerts := []*models.Alert{}
	err = r.db.GetDB().SelectContext(ctx, &alerts, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list alerts by ids", err)
	}
	return alerts, nil
}

// Acknowledge sets the acknowledgement fields in one conditional write. The
// guard on acknowledged keeps the first acknowledgement's actor and timestamp
// intact when the same alert is acknowledged again.
func (r *AlertRepo) Acknowledge(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	query := `
		UPDATE alerts SET
			acknowledged = TRUE,
			acknowledged_by = $1,
			acknowledged_at = $2
		WHERE id = $3 AND acknowledged = FALSE`

	result, err := r.db.GetDB().ExecContext(ctx, query, actorID, at, id)
	if err != nil {
		return false, errors.NewDatabaseError("failed to acknowledge alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		// Distinguish "already acknowledged" from "no such alert".
		if _, err := r.Get(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}
