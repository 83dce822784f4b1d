// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Webhook *WebhookHandlers
	Devices *DeviceHandlers
	Alerts  *AlertHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Webhook: &WebhookHandlers{hubservice: svc},
		Devices: &DeviceHandlers{hubservice: svc},
		Alerts:  &AlertHandlers{hubservice: svc},
	}
}

// Helper functions

func getPaginationParams(r *http.Request) (offset, limit int) {
	query := r.URL.Query()
	offset, _ = strconv.Atoi(query.Get("offset"))
	limit, _ = strconv.Atoi(query.Get("limit"))

	if limit <= 0 || limit > 100 {
		limit = 50 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	return offset, limit
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// asAPIError normalizes service errors so handlers keep the right HTTP code.
func asAPIError(err error, fallbackMsg, requestID string) *errors.APIError {
	if apiErr, ok := err.(*errors.APIError); ok {
		return apiErr.WithRequestID(requestID)
	}
	return errors.NewInternalError(fallbackMsg, err).WithRequestID(requestID)
}
