// FilePath: internal/hubservice/hubservice.device.go
package hubservice

import (
	"context"
	"time"

	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CreateDevice registers a new sensor unit. Provisioning happens out-of-band
// of the ingestion pipeline; ingestion only ever touches the status cache.
func (s *HubService) CreateDevice(ctx context.Context, device *models.Device) error {
	if device.SerialNumber == "" {
		return errors.NewValidationError("device serial number is required", nil)
	}
	if device.Name == "" {
		device.Name = device.SerialNumber
	}

	if device.ID == "" {
		device.ID = nuts.NID("dev", 12)
	}

	now := time.Now()
	device.CreatedAt = now
	device.UpdatedAt = now
	device.IsActive = true
	if device.CurrentStatus == "" {
		device.CurrentStatus = models.StatusAdequado
	}

	nuts.L.Infof("[DeviceService] Creating new device: %s (%s)", device.SerialNumber, device.ID)
	return s.Devices.Create(ctx, device)
}

// GetDevice retrieves a device by its internal id.
func (s *HubService) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	return s.Devices.Get(ctx, id)
}

// ListDevices retrieves a paginated list of active devices ordered by name.
func (s *HubService) ListDevices(ctx context.Context, offset, limit int) ([]*models.Device, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Devices.List(ctx, offset, limit)
}

// DeactivateDevice soft-deletes a device. Its readings and alerts are kept.
func (s *HubService) DeactivateDevice(ctx context.Context, id string) error {
	if _, err := s.Devices.Get(ctx, id); err != nil {
		return err
	}
	nuts.L.Infof("[DeviceService] Deactivating device: %s", id)
	return s.Devices.Deactivate(ctx, id)
}

// GetDeviceStatus retrieves the composite status view for one device.
func (s *HubService) GetDeviceStatus(ctx context.Context, id string) (*models.DeviceStatus, error) {
	device, err := s.Devices.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.Readings.Latest(ctx, id)
	if err != nil && !errors.IsNotFound(err) {
		nuts.L.Warnf("[DeviceService] Failed to get latest reading for device %s: %v", id, err)
	}

	return &models.DeviceStatus{
		Device:        device,
		LatestReading: latest,
		OnlineStatus:  determineOnlineStatus(device.LastReadingAt),
		LastActivity:  findLastActivity(device),
	}, nil
}

// GetDeviceReadings returns readings newest-first within a time range.
func (s *HubService) GetDeviceReadings(ctx context.Context, id string, start, end time.Time, limit int) ([]*models.Reading, error) {
	if _, err := s.Devices.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 5000 {
		limit = 500
	}
	return s.Readings.ListByDevice(ctx, id, start, end, limit)
}

// GetDeviceReadingAggregates returns bucketed min/max/avg summaries for the
// analytics charts.
func (s *HubService) GetDeviceReadingAggregates(ctx context.Context, id string, start, end time.Time, interval string) ([]*models.ReadingAggregate, error) {
	if _, err := s.Devices.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Readings.Aggregates(ctx, id, start, end, interval)
}

// Helper functions

func determineOnlineStatus(lastReadingAt *time.Time) string {
	if lastReadingAt == nil {
		return "offline"
	}

	timeSinceLastReading := time.Since(*lastReadingAt)
	switch {
	case timeSinceLastReading < 5*time.Minute:
		return "online"
	case timeSinceLastReading < 15*time.Minute:
		return "stale"
	default:
		return "offline"
	}
}

func findLastActivity(device *models.Device) time.Time {
	if device.LastReadingAt != nil && device.LastReadingAt.After(device.UpdatedAt) {
		return *device.LastReadingAt
	}
	return device.UpdatedAt
}
