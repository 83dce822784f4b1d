// FilePath: internal/repository/postgres/postgres.device.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
)

type DeviceRepo struct {
	PostgresBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	repo := &PostgresBaseRepo{db: db}
	return &DeviceRepo{PostgresBaseRepo: *repo}
}

func (r *DeviceRepo) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (
			id, serial_number, name, location, latitude, longitude,
			model, installation_date, last_reading_at, current_status,
			is_active, created_at, updated_at
		) VALUES (
			:id, :serial_number, :name, :location, :latitude, :longitude,
			:model, :installation_date, :last_reading_at, :current_status,
			:is_active, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		return errors.NewDatabaseError("failed to create device", err)
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, id string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM devices WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device", err)
	}
	return device, nil
}

func (r *DeviceRepo) GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM devices WHERE serial_number = $1 AND is_active = TRUE`

	err := r.db.GetDB().GetContext(ctx, device, query, serialNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device by serial", err)
	}
	return device, nil
}

func (r *DeviceRepo) Update(ctx context.Context, device *models.Device) error {
	query := `
		UPDATE devices SET
			name = :name,
			location = :location,
			latitude = :latitude,
			longitude = :longitude,
			model = :model,
			installation_date = :installation_date,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		return errors.NewDatabaseError("failed to update device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}

// UpdateStatusIfNewer is the single conditional write that keeps the cached
// device status consistent under concurrent and out-of-order ingestion. The
// guard on last_reading_at makes the newest observation win regardless of
// arrival order.
func (r *DeviceRepo) UpdateStatusIfNewer(ctx context.Context, id string, status models.StatusBand, observedAt time.Time) (bool, error) {
	query := `
		UPDATE devices SET
			current_status = $1,
			last_reading_at = $2,
			updated_at = NOW()
		WHERE id = $3
		AND (last_reading_at IS NULL OR last_reading_at <= $2)`

	result, err := r.db.GetDB().ExecContext(ctx, query, status, observedAt, id)
	if err != nil {
		return false, errors.NewDatabaseError("failed to update device status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		// Either the device is gone or a newer reading already landed.
		if _, err := r.Get(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *DeviceRepo) List(ctx context.Context, offset, limit int) ([]*models.Device, error) {
	devices := []*models.Device{}
	query := `SELECT * FROM devices WHERE is_active = TRUE ORDER BY name LIMIT $1 OFFSET $2`

	err := r.db.GetDB().SelectContext(ctx, &devices, query, limit, offset)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list devices", err)
	}

	return devices, nil
}

func (r *DeviceRepo) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE devices SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to deactivate device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}
