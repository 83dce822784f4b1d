// FilePath: internal/hubservice/hubservice.ingest.go
package hubservice

import (
	"context"
	"fmt"
	"time"

	"github.com/sparxlab/sparx-hub/internal/classify"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/events"
	"github.com/sparxlab/sparx-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IngestInput is one device-labeled temperature observation from the MQTT
// bridge or a direct webhook call.
type IngestInput struct {
	SerialNumber string
	Temperature  float64
	// ObservedAt defaults to ingestion time when the transport supplied none.
	ObservedAt *time.Time
	// ReportedStatus is the status string some transports attach to the
	// payload context. Advisory only; the classifier's band is authoritative.
	ReportedStatus string
}

// IngestResult reports what the ingestion call applied.
type IngestResult struct {
	Reading *models.Reading `json:"reading"`
	Device  *models.Device  `json:"device"`
	Alert   *models.Alert   `json:"alert,omitempty"`
	// StatusApplied is false when a newer reading already owned the device's
	// cached status (last-observed-wins) and this call left it untouched.
	StatusApplied bool `json:"status_applied"`
}

// IngestReading runs the classify-persist-alert pipeline for one observation.
//
// The reading insert gates the device status update, which gates alert
// emission. A failure after the reading was persisted surfaces as a
// partial_ingest error naming the failed step, so callers can retry the
// remaining work instead of duplicating the reading.
func (s *HubService) IngestReading(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if input.SerialNumber == "" {
		return nil, errors.NewValidationError("device label is required", nil)
	}

	band, err := classify.Classify(input.Temperature)
	if err != nil {
		return nil, errors.NewValidationError("invalid temperature value", err)
	}

	if input.ReportedStatus != "" && input.ReportedStatus != band.String() {
		nuts.L.Warnf("[Ingest] Device %s reported status %q, classified as %q; using classified band",
			input.SerialNumber, input.ReportedStatus, band)
	}

	device, err := s.Devices.GetBySerial(ctx, input.SerialNumber)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError(
				fmt.Sprintf("no active device with serial %q", input.SerialNumber), err)
		}
		return nil, err
	}

	observedAt := time.Now()
	if input.ObservedAt != nil {
		observedAt = *input.ObservedAt
	}

	reading := &models.Reading{
		ID:          nuts.NID("rd", 12),
		DeviceID:    device.ID,
		Temperature: input.Temperature,
		Status:      band,
		Timestamp:   observedAt,
		CreatedAt:   time.Now(),
	}

	if err := s.Readings.Insert(ctx, reading); err != nil {
		// Nothing applied; the whole call is safe to retry.
		return nil, err
	}

	applied, err := s.Devices.UpdateStatusIfNewer(ctx, device.ID, band, observedAt)
	if err != nil {
		return nil, errors.NewPartialIngestError(
			"reading stored but device status update failed",
			reading.ID, "device_status", err)
	}
	if applied {
		device.CurrentStatus = band
		device.LastReadingAt = &observedAt
		s.Events.Emit(events.DeviceUpdated, device)
	} else {
		nuts.L.Debugf("[Ingest] Reading %s for device %s is older than cached status, device left untouched",
			reading.ID, device.ID)
	}

	alert, err := s.maybeEmitAlert(ctx, device, input.Temperature, band)
	if err != nil {
		return nil, errors.NewPartialIngestError(
			"reading stored but alert creation failed",
			reading.ID, "alert", err)
	}

	s.Events.Emit(events.ReadingIngested, reading)
	nuts.L.Infof("[Ingest] Reading %s for device %s: %.2f°C (%s)",
		reading.ID, device.SerialNumber, input.Temperature, band)

	return &IngestResult{
		Reading:       reading,
		Device:        device,
		Alert:         alert,
		StatusApplied: applied,
	}, nil
}

// maybeEmitAlert creates one alert per qualifying reading. Repeated crossings
// are recorded independently; rate limiting is a policy for layers above.
func (s *HubService) maybeEmitAlert(ctx context.Context, device *models.Device, temperature float64, band models.StatusBand) (*models.Alert, error) {
	if band == models.StatusAdequado {
		return nil, nil
	}

	alert := &models.Alert{
		ID:          nuts.NID("al", 12),
		DeviceID:    device.ID,
		Temperature: temperature,
		Status:      band,
		Message:     alertMessage(temperature, band),
		CreatedAt:   time.Now(),
	}

	if err := s.Alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.Events.Emit(events.AlertCreated, alert)
	nuts.L.Infof("[Ingest] Alert %s created for device %s (%s)", alert.ID, device.SerialNumber, band)
	return alert, nil
}

func alertMessage(temperature float64, band models.StatusBand) string {
	if band == models.StatusCritico {
		return fmt.Sprintf("⚠️ TEMPERATURA CRÍTICA: %v°C - Ação imediata necessária!", temperature)
	}
	return fmt.Sprintf("⚡ Temperatura elevada: %v°C - Monitoramento necessário", temperature)
}
