// FilePath: internal/models/models.alert.go
package models

import "time"

// Alert is a record generated when a reading is classified into the elevated
// or critical band. The acknowledgement fields are all-or-nothing: either
// Acknowledged is true and both AcknowledgedBy and AcknowledgedAt are set, or
// all three are unset.
type Alert struct {
	ID             string     `json:"id" db:"id"`
	DeviceID       string     `json:"device_id" db:"device_id"`
	Temperature    float64    `json:"temperature" db:"temperature"`
	Status         StatusBand `json:"status" db:"status"`
	Message        string     `json:"message" db:"message"`
	Acknowledged   bool       `json:"acknowledged" db:"acknowledged"`
	AcknowledgedBy *string    `json:"acknowledged_by" db:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at" db:"acknowledged_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// AlertFilters defines the available filter options for alert listings.
// Decoded from the dashboard query string.
type AlertFilters struct {
	Status       StatusBand `json:"status" schema:"status"`
	Acknowledged *bool      `json:"acknowledged" schema:"acknowledged"`
	DeviceID     string     `json:"device_id" schema:"device_id"`
	Limit        int        `json:"limit" schema:"limit"`
}

// AlertStats holds the alert counters shown on the dashboard header.
type AlertStats struct {
	Total           int `json:"total"`
	Unacknowledged  int `json:"unacknowledged"`
	Critico         int `json:"critico"`
	Precario        int `json:"precario"`
	Adequado        int `json:"adequado"`
	CriticoUnacked  int `json:"critico_unacknowledged"`
	PrecarioUnacked int `json:"precario_unacknowledged"`
}

// ComputeAlertStats aggregates alert counters in a single pass. Pure, no side
// effects.
func ComputeAlertStats(alerts []*Alert) AlertStats {
	stats := AlertStats{Total: len(alerts)}
	for _, a := range alerts {
		if !a.Acknowledged {
			stats.Unacknowledged++
		}
		switch a.Status {
		case StatusCritico:
			stats.Critico++
			if !a.Acknowledged {
				stats.CriticoUnacked++
			}
		case StatusPrecario:
			stats.Precario++
			if !a.Acknowledged {
				stats.PrecarioUnacked++
			}
		case StatusAdequado:
			stats.Adequado++
		}
	}
	return stats
}
