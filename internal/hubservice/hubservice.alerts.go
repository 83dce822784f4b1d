// FilePath: internal/hubservice/hubservice.alerts.go
package hubservice

import (
	"context"
	"time"

	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/events"
	"github.com/sparxlab/sparx-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AcknowledgeAlert marks one alert as handled by the given actor. The
// acknowledgement timestamp is taken from the system clock, never from the
// caller. Acknowledging an already-acknowledged alert succeeds and returns
// the alert with the first acknowledgement's actor and timestamp intact.
func (s *HubService) AcknowledgeAlert(ctx context.Context, alertID, actorID string) (*models.Alert, error) {
	if actorID == "" {
		return nil, errors.NewValidationError("acknowledging actor is required", nil)
	}

	applied, err := s.Alerts.Acknowledge(ctx, alertID, actorID, time.Now())
	if err != nil {
		return nil, err
	}

	alert, err := s.Alerts.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if applied {
		s.Events.Emit(events.AlertAcknowledged, alert)
		nuts.L.Infof("[Alerts] Alert %s acknowledged by %s", alertID, actorID)
	}
	return alert, nil
}

// AcknowledgeAlerts is the bulk form used by the alert center. Best-effort:
// it returns every alert that is acknowledged after the call (newly or
// previously), skipping unknown ids with a warning. Dashboard usage tolerates
// partial application.
func (s *HubService) AcknowledgeAlerts(ctx context.Context, alertIDs []string, actorID string) ([]*models.Alert, error) {
	if actorID == "" {
		return nil, errors.NewValidationError("acknowledging actor is required", nil)
	}
	if len(alertIDs) == 0 {
		return nil, errors.NewValidationError("no alert ids given", nil)
	}

	acknowledged := make([]*models.Alert, 0, len(alertIDs))
	for _, id := range alertIDs {
		alert, err := s.AcknowledgeAlert(ctx, id, actorID)
		if err != nil {
			if errors.IsNotFound(err) {
				nuts.L.Warnf("[Alerts] Skipping unknown alert %s in bulk acknowledge", id)
				continue
			}
			return acknowledged, err
		}
		acknowledged = append(acknowledged, alert)
	}

	return acknowledged, nil
}

// ListAlerts returns alerts newest-first, narrowed by the dashboard filters.
func (s *HubService) ListAlerts(ctx context.Context, filters models.AlertFilters) ([]*models.Alert, error) {
	return s.Alerts.List(ctx, filters)
}

// GetAlertStats fetches all alerts and aggregates the dashboard counters.
func (s *HubService) GetAlertStats(ctx context.Context) (*models.AlertStats, error) {
	alerts, err := s.Alerts.List(ctx, models.AlertFilters{Limit: 1000})
	if err != nil {
		return nil, err
	}
	stats := models.ComputeAlertStats(alerts)
	return &stats, nil
}
