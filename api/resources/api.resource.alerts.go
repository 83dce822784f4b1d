// FilePath: api/resources/api.resource.alerts.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
	"github.com/sparxlab/sparx-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AlertHandlers encapsulates the alert-related HTTP handlers
type AlertHandlers struct {
	hubservice *hubservice.HubService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// AcknowledgeRequest is the body for both acknowledge forms.
type AcknowledgeRequest struct {
	AlertIDs       []string `json:"alert_ids,omitempty"`
	AcknowledgedBy string   `json:"acknowledged_by"`
}

// @Summary List alerts
// @Description Get alerts newest-first, filtered by status, acknowledgement and device
// @Tags alerts
// @Produce json
// @Param status query string false "Status band (adequado, precario, critico)"
// @Param acknowledged query bool false "Acknowledgement flag"
// @Param device_id query string false "Device ID"
// @Param limit query int false "Maximum alerts returned"
// @Success 200 {array} models.Alert
// @Router /alerts [get]
func (h *AlertHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.AlertFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	if filters.Status != "" && !filters.Status.Valid() {
		respondWithError(w, errors.NewValidationError("unknown status band", nil).WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.ListAlerts(r.Context(), filters)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to list alerts", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// @Summary Get alert statistics
// @Description Get the alert counters shown on the dashboard header
// @Tags alerts
// @Produce json
// @Success 200 {object} models.AlertStats
// @Router /alerts/stats [get]
func (h *AlertHandlers) GetAlertStats(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	stats, err := h.hubservice.GetAlertStats(r.Context())
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get alert stats", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// @Summary Acknowledge an alert
// @Description Mark a single alert as handled; the first acknowledgement wins
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param body body AcknowledgeRequest true "Acknowledging actor"
// @Success 200 {object} models.Alert
// @Failure 404 {object} errors.APIError
// @Router /alerts/{id}/acknowledge [post]
func (h *AlertHandlers) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var req AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	alert, err := h.hubservice.AcknowledgeAlert(r.Context(), id, req.AcknowledgedBy)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to acknowledge alert", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, alert)
}

// @Summary Acknowledge multiple alerts
// @Description Best-effort bulk acknowledgement; unknown ids are skipped
// @Tags alerts
// @Accept json
// @Produce json
// @Param body body AcknowledgeRequest true "Alert ids and acknowledging actor"
// @Success 200 {array} models.Alert
// @Failure 400 {object} errors.APIError
// @Router /alerts/acknowledge [post]
func (h *AlertHandlers) AcknowledgeAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.AcknowledgeAlerts(r.Context(), req.AlertIDs, req.AcknowledgedBy)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to acknowledge alerts", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}
