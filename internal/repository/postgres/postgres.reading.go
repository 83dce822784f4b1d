// FilePath: internal/repository/postgres/postgres.reading.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
)

type ReadingRepo struct {
	PostgresBaseRepo
}

func NewReadingRepository(db database.DB) *ReadingRepo {
	repo := &PostgresBaseRepo{db: db}
	return &ReadingRepo{PostgresBaseRepo: *repo}
}

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO temperature_readings (
			id, device_id, temperature, status, timestamp, created_at
		) VALUES (
			:id, :device_id, :temperature, :status, :timestamp, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert reading", err)
	}
	return nil
}

func (r *ReadingRepo) ListByDevice(ctx context.Context, deviceID string, start, end time.Time, limit int) ([]*models.Reading, error) {
	readings := []*models.Reading{}
	query := `
		SELECT * FROM temperature_readings
		WHERE device_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp DESC
		LIMIT $4`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, deviceID, start, end, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list readings", err)
	}
	return readings, nil
}

func (r *ReadingRepo) Latest(ctx context.Context, deviceID string) (*models.Reading, error) {
	reading := &models.Reading{}
	query := `
		SELECT * FROM temperature_readings
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query, deviceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no readings for device", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest reading", err)
	}
	return reading, nil
}

// Aggregates buckets readings with date_trunc. Interval is restricted to the
// two dashboard granularities to keep the query string static.
func (r *ReadingRepo) Aggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]*models.ReadingAggregate, error) {
	switch interval {
	case "hour", "day":
	default:
		return nil, errors.NewValidationError("invalid interval", nil)
	}

	aggregates := []*models.ReadingAggregate{}
	query := fmt.Sprintf(`
		SELECT
			device_id,
			MIN(temperature) as min,
			MAX(temperature) as max,
			AVG(temperature) as avg,
			COUNT(*) as count,
			date_trunc('%s', timestamp) as start_time
		FROM temperature_readings
		WHERE device_id = $1 AND timestamp BETWEEN $2 AND $3
		GROUP BY device_id, date_trunc('%s', timestamp)
		ORDER BY start_time DESC`, interval, interval)

	err := r.db.GetDB().SelectContext(ctx, &aggregates, query, deviceID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get reading aggregates", err)
	}
	return aggregates, nil
}
