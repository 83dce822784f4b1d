// FilePath: api/resources/api.resource.webhook.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// WebhookHandlers receives reading events forwarded by the MQTT bridge (or
// any HTTP integration speaking the same payload).
type WebhookHandlers struct {
	hubservice *hubservice.HubService
}

// ReadingPayload is the inbound webhook body.
type ReadingPayload struct {
	DeviceLabel   string          `json:"device_label"`
	VariableLabel string          `json:"variable_label"`
	Value         *float64        `json:"value"`
	Timestamp     *int64          `json:"timestamp"` // epoch milliseconds
	Context       *PayloadContext `json:"context"`
}

// PayloadContext carries transport-side extras. Status here is advisory; the
// hub classifies the value itself.
type PayloadContext struct {
	Status      string `json:"status,omitempty"`
	DeviceLabel string `json:"device_label,omitempty"`
}

// WebhookResponse is the fixed response contract: 200 with the reading id on
// success, 400 with an error string on any failure.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	ReadingID string `json:"reading_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// @Summary Ingest a temperature reading
// @Description Receive a device-labeled reading event and run the classify-persist-alert pipeline
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body ReadingPayload true "Reading event"
// @Success 200 {object} WebhookResponse
// @Failure 400 {object} WebhookResponse
// @Router /webhook/readings [post]
func (h *WebhookHandlers) IngestReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var payload ReadingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWebhookError(w, "invalid request body", requestID, err)
		return
	}

	deviceLabel := payload.DeviceLabel
	if deviceLabel == "" && payload.Context != nil {
		deviceLabel = payload.Context.DeviceLabel
	}
	if deviceLabel == "" || payload.Value == nil {
		respondWebhookError(w, "device_label or value missing", requestID, nil)
		return
	}

	input := hubservice.IngestInput{
		SerialNumber: deviceLabel,
		Temperature:  *payload.Value,
	}
	if payload.Timestamp != nil {
		observedAt := time.UnixMilli(*payload.Timestamp)
		input.ObservedAt = &observedAt
	}
	if payload.Context != nil {
		input.ReportedStatus = payload.Context.Status
	}

	result, err := h.hubservice.IngestReading(r.Context(), input)
	if err != nil {
		respondWebhookError(w, err.Error(), requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, WebhookResponse{
		Success:   true,
		ReadingID: result.Reading.ID,
		Message:   "reading processed",
	})
}

// respondWebhookError flattens every failure to the webhook's 400 contract.
func respondWebhookError(w http.ResponseWriter, msg, requestID string, err error) {
	nuts.L.Errorf("[Webhook] %s (request %s): %v", msg, requestID, err)
	if apiErr, ok := err.(*errors.APIError); ok {
		msg = apiErr.Message
	}
	respondWithJSON(w, http.StatusBadRequest, WebhookResponse{
		Success: false,
		Error:   msg,
	})
}
