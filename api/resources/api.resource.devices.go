// FilePath: api/resources/api.resource.devices.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
	"github.com/sparxlab/sparx-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// DeviceHandlers encapsulates the device-related HTTP handlers
type DeviceHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Register a new device
// @Description Register a new transformer temperature sensor unit
// @Tags devices
// @Accept json
// @Produce json
// @Param device body models.Device true "Device details"
// @Success 201 {object} models.Device
// @Failure 400 {object} errors.APIError
// @Router /devices [post]
func (h *DeviceHandlers) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var device models.Device
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateDevice(r.Context(), &device); err != nil {
		respondWithError(w, asAPIError(err, "failed to create device", requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, device)
}

// @Summary List devices
// @Description Get a paginated list of active devices
// @Tags devices
// @Produce json
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.Device
// @Router /devices [get]
func (h *DeviceHandlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	offset, limit := getPaginationParams(r)

	devices, err := h.hubservice.ListDevices(r.Context(), offset, limit)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to list devices", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, devices)
}

// @Summary Get a device by ID
// @Description Get detailed information about a specific device
// @Tags devices
// @Produce json
// @Param id path string true "Device ID"
// @Success 200 {object} models.Device
// @Failure 404 {object} errors.APIError
// @Router /devices/{id} [get]
func (h *DeviceHandlers) GetDevice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	device, err := h.hubservice.GetDevice(r.Context(), id)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get device", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, device)
}

// @Summary Deactivate a device
// @Description Soft-delete a device; its readings and alerts are kept
// @Tags devices
// @Produce json
// @Param id path string true "Device ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /devices/{id} [delete]
func (h *DeviceHandlers) DeactivateDevice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeactivateDevice(r.Context(), id); err != nil {
		respondWithError(w, asAPIError(err, "failed to deactivate device", requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get device status
// @Description Get the current status of a device including its latest reading
// @Tags devices
// @Produce json
// @Param id path string true "Device ID"
// @Success 200 {object} models.DeviceStatus
// @Failure 404 {object} errors.APIError
// @Router /devices/{id}/status [get]
func (h *DeviceHandlers) GetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	status, err := h.hubservice.GetDeviceStatus(r.Context(), id)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get device status", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Get device readings
// @Description Get readings for a device with optional time range and aggregation
// @Tags devices
// @Produce json
// @Param id path string true "Device ID"
// @Param start query string false "Start time (RFC3339)"
// @Param end query string false "End time (RFC3339)"
// @Param interval query string false "Aggregation interval (hour, day)"
// @Param limit query int false "Maximum readings returned"
// @Success 200 {array} models.Reading
// @Router /devices/{id}/readings [get]
func (h *DeviceHandlers) GetDeviceReadings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	timeRange := parseTimeRange(r)
	interval := r.URL.Query().Get("interval")

	if interval != "" {
		aggregates, err := h.hubservice.GetDeviceReadingAggregates(r.Context(), id, timeRange.start, timeRange.end, interval)
		if err != nil {
			respondWithError(w, asAPIError(err, "failed to get reading aggregates", requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, aggregates)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	readings, err := h.hubservice.GetDeviceReadings(r.Context(), id, timeRange.start, timeRange.end, limit)
	if err != nil {
		respondWithError(w, asAPIError(err, "failed to get readings", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// Helper functions and types

type timeRange struct {
	start time.Time
	end   time.Time
}

func parseTimeRange(r *http.Request) timeRange {
	query := r.URL.Query()
	now := time.Now()

	// Parse start time
	start := now.Add(-24 * time.Hour) // Default to last 24 hours
	if startStr := query.Get("start"); startStr != "" {
		if parsed, err := time.Parse(time.RFC3339, startStr); err == nil {
			start = parsed
		}
	}

	// Parse end time
	end := now
	if endStr := query.Get("end"); endStr != "" {
		if parsed, err := time.Parse(time.RFC3339, endStr); err == nil {
			end = parsed
		}
	}

	return timeRange{start: start, end: end}
}
