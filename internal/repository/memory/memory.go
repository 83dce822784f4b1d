// FilePath: internal/repository/memory/memory.go

// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. Used by the test suite and by `--store=memory` runs
// of the hub when no Postgres is around.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
)

// noopTx satisfies database.Transaction for stores with no real transactions.
type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }
func (noopTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return dbResult{}, nil
}

type dbResult struct{}

func (dbResult) LastInsertId() (int64, error) { return 0, nil }
func (dbResult) RowsAffected() (int64, error) { return 0, nil }

// DeviceStore is an in-memory DeviceRepository.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]*models.Device
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[string]*models.Device)}
}

func (s *DeviceStore) BeginTx(ctx context.Context) (database.Transaction, error) {
	return noopTx{}, nil
}

func (s *DeviceStore) Create(ctx context.Context, device *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.devices {
		if d.SerialNumber == device.SerialNumber {
			return errors.NewValidationError("serial number already registered", nil)
		}
	}
	clone := *device
	s.devices[device.ID] = &clone
	return nil
}

func (s *DeviceStore) Get(ctx context.Context, id string) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, ok := s.devices[id]
	if !ok {
		return nil, errors.NewNotFoundError("device not found", nil)
	}
	clone := *device
	return &clone, nil
}

func (s *DeviceStore) GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, device := range s.devices {
		if device.SerialNumber == serialNumber && device.IsActive {
			clone := *device
			return &clone, nil
		}
	}
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (s *DeviceStore) Update(ctx context.Context, device *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.devices[device.ID]
	if !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	existing.Name = device.Name
	existing.Location = device.Location
	existing.Latitude = device.Latitude
	existing.Longitude = device.Longitude
	existing.Model = device.Model
	existing.InstallationDate = device.InstallationDate
	existing.UpdatedAt = device.UpdatedAt
	return nil
}

func (s *DeviceStore) UpdateStatusIfNewer(ctx context.Context, id string, status models.StatusBand, observedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.devices[id]
	if !ok {
		return false, errors.NewNotFoundError("device not found", nil)
	}
	if device.LastReadingAt != nil && device.LastReadingAt.After(observedAt) {
		return false, nil
	}
	at := observedAt
	device.CurrentStatus = status
	device.LastReadingAt = &at
	device.UpdatedAt = time.Now()
	return true, nil
}

func (s *DeviceStore) List(ctx context.Context, offset, limit int) ([]*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := []*models.Device{}
	for _, device := range s.devices {
		if device.IsActive {
			clone := *device
			devices = append(devices, &clone)
		}
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	if offset >= len(devices) {
		return []*models.Device{}, nil
	}
	devices = devices[offset:]
	if limit > 0 && limit < len(devices) {
		devices = devices[:limit]
	}
	return devices, nil
}

func (s *DeviceStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.devices[id]
	if !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	device.IsActive = false
	device.UpdatedAt = time.Now()
	return nil
}

// ReadingStore is an in-memory ReadingRepository.
type ReadingStore struct {
	mu       sync.RWMutex
	readings []*models.Reading
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{readings: []*models.Reading{}}
}

func (s *ReadingStore) BeginTx(ctx context.Context) (database.Transaction, error) {
	return noopTx{}, nil
}

func (s *ReadingStore) Insert(ctx context.Context, reading *models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *reading
	s.readings = append(s.readings, &clone)
	return nil
}

func (s *ReadingStore) ListByDevice(ctx context.Context, deviceID string, start, end time.Time, limit int) ([]*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*models.Reading{}
	for _, r := range s.readings {
		if r.DeviceID != deviceID || r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		clone := *r
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (s *ReadingStore) Latest(ctx context.Context, deviceID string) (*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Reading
	for _, r := range s.readings {
		if r.DeviceID != deviceID {
			continue
		}
		if latest == nil || r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("no readings for device", nil)
	}
	clone := *latest
	return &clone, nil
}

func (s *ReadingStore) Aggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]*models.ReadingAggregate, error) {
	var trunc func(time.Time) time.Time
	switch interval {
	case "hour":
		trunc = func(t time.Time) time.Time { return t.Truncate(time.Hour) }
	case "day":
		trunc = func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		}
	default:
		return nil, errors.NewValidationError("invalid interval", nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := map[time.Time]*models.ReadingAggregate{}
	for _, r := range s.readings {
		if r.DeviceID != deviceID || r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		key := trunc(r.Timestamp)
		agg, ok := buckets[key]
		if !ok {
			agg = &models.ReadingAggregate{
				DeviceID:  deviceID,
				Min:       r.Temperature,
				Max:       r.Temperature,
				StartTime: key,
			}
			buckets[key] = agg
		}
		if r.Temperature < agg.Min {
			agg.Min = r.Temperature
		}
		if r.Temperature > agg.Max {
			agg.Max = r.Temperature
		}
		agg.Avg += r.Temperature
		agg.Count++
	}

	result := []*models.ReadingAggregate{}
	for _, agg := range buckets {
		agg.Avg /= float64(agg.Count)
		result = append(result, agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.After(result[j].StartTime) })
	return result, nil
}

// AlertStore is an in-memory AlertRepository.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*models.Alert
	order  []string
}

func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: make(map[string]*models.Alert)}
}

func (s *AlertStore) BeginTx(ctx context.Context) (database.Transaction, error) {
	return noopTx{}, nil
}

func (s *AlertStore) Create(ctx context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *alert
	s.alerts[alert.ID] = &clone
	s.order = append(s.order, alert.ID)
	return nil
}

func (s *AlertStore) Get(ctx context.Context, id string) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alert, ok := s.alerts[id]
	if !ok {
		return nil, errors.NewNotFoundError("alert not found", nil)
	}
	clone := *alert
	return &clone, nil
}

func (s *AlertStore) List(ctx context.Context, filters models.AlertFilters) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filters.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	result := []*models.Alert{}
	// Newest first.
	for i := len(s.order) - 1; i >= 0 && len(result) < limit; i-- {
		alert := s.alerts[s.order[i]]
		if filters.Status != "" && alert.Status != filters.Status {
			continue
		}
		if filters.Acknowledged != nil && alert.Acknowledged != *filters.Acknowledged {
			continue
		}
		if filters.DeviceID != "" && alert.DeviceID != filters.DeviceID {
			continue
		}
		clone := *alert
		result = append(result, &clone)
	}
	return result, nil
}

func (s *AlertStore) ListByIDs(ctx context.Context, ids []string) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*models.Alert{}
	for _, id := range ids {
		if alert, ok := s.alerts[id]; ok {
			clone := *alert
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *AlertStore) Acknowledge(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[id]
	if !ok {
		return false, errors.NewNotFoundError("alert not found", nil)
	}
	if alert.Acknowledged {
		return false, nil
	}
	actor := actorID
	when := at
	alert.Acknowledged = true
	alert.AcknowledgedBy = &actor
	alert.AcknowledgedAt = &when
	return true, nil
}
