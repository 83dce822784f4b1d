// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// DeviceRepository defines the interface for device data operations
type DeviceRepository interface {
	database.Repository
	Create(ctx context.Context, device *models.Device) error
	Get(ctx context.Context, id string) (*models.Device, error)
	// GetBySerial resolves a device by its serial number. Only active devices
	// are considered.
	GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	List(ctx context.Context, offset, limit int) ([]*models.Device, error)
	// UpdateStatusIfNewer applies the cached status and last_reading_at in a
	// single conditional write. It returns false without error when the stored
	// last_reading_at is already newer than observedAt (last-observed-wins).
	UpdateStatusIfNewer(ctx context.Context, id string, status models.StatusBand, observedAt time.Time) (bool, error)
	// Deactivate soft-deletes a device. Readings and alerts are kept.
	Deactivate(ctx context.Context, id string) error
}

// ReadingRepository defines the interface for temperature observations
type ReadingRepository interface {
	database.Repository
	Insert(ctx context.Context, reading *models.Reading) error
	ListByDevice(ctx context.Context, deviceID string, start, end time.Time, limit int) ([]*models.Reading, error)
	Latest(ctx context.Context, deviceID string) (*models.Reading, error)
	Aggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]*models.ReadingAggregate, error)
}

// AlertRepository defines the interface for alert records
type AlertRepository interface {
	database.Repository
	Create(ctx context.Context, alert *models.Alert) error
	Get(ctx context.Context, id string) (*models.Alert, error)
	List(ctx context.Context, filters models.AlertFilters) ([]*models.Alert, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Alert, error)
	// Acknowledge sets the acknowledgement fields on an unacknowledged alert.
	// It returns false without error when the alert was already acknowledged:
	// the first acknowledgement wins and is never overwritten.
	Acknowledge(ctx context.Context, id, actorID string, at time.Time) (bool, error)
}
