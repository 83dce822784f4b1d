// FilePath: api/api.router_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sparxlab/sparx-hub/internal/hubservice"
	"github.com/sparxlab/sparx-hub/internal/models"
	"github.com/sparxlab/sparx-hub/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, webhookToken string) (*Router, *hubservice.HubService, *models.Device) {
	t.Helper()

	svc := hubservice.New(memory.NewDeviceStore(), memory.NewReadingStore(), memory.NewAlertStore())
	device := &models.Device{SerialNumber: "sparx-unit-01", Name: "Trafo Norte"}
	require.NoError(t, svc.CreateDevice(context.Background(), device))

	health := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
	return NewRouter(svc, webhookToken, health), svc, device
}

func postJSON(router http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getJSON(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookIngestion(t *testing.T) {
	value := 65.0

	t.Run("valid payload returns the reading id", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		rec := postJSON(router, "/api/v1/webhook/readings", map[string]any{
			"device_label":   "sparx-unit-01",
			"variable_label": "temperature",
			"value":          value,
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Success   bool   `json:"success"`
			ReadingID string `json:"reading_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.ReadingID)
	})

	t.Run("device label falls back to the payload context", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		rec := postJSON(router, "/api/v1/webhook/readings", map[string]any{
			"value":   45.5,
			"context": map[string]any{"device_label": "sparx-unit-01", "status": "adequado"},
		}, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown device returns 400 with the error flattened", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		rec := postJSON(router, "/api/v1/webhook/readings", map[string]any{
			"device_label": "ghost-01",
			"value":        value,
		}, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "ghost-01")
	})

	t.Run("missing value returns 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		rec := postJSON(router, "/api/v1/webhook/readings", map[string]any{
			"device_label": "sparx-unit-01",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("preflight request is answered by the CORS layer", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "hub-secret")

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/webhook/readings", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/readings", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWebhookTokenGuard(t *testing.T) {
	body := map[string]any{"device_label": "sparx-unit-01", "value": 45.0}

	t.Run("missing token is rejected", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "hub-secret")
		rec := postJSON(router, "/api/v1/webhook/readings", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "hub-secret")
		rec := postJSON(router, "/api/v1/webhook/readings", body, map[string]string{
			"Authorization": "Bearer wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct token passes", func(t *testing.T) {
		router, _, _ := newTestRouter(t, "hub-secret")
		rec := postJSON(router, "/api/v1/webhook/readings", body, map[string]string{
			"Authorization": "Bearer hub-secret",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAlertEndpoints(t *testing.T) {
	router, svc, device := newTestRouter(t, "")
	ctx := context.Background()

	var alertIDs []string
	for _, temperature := range []float64{65.0, 55.0, 45.0} {
		result, err := svc.IngestReading(ctx, hubservice.IngestInput{
			SerialNumber: device.SerialNumber,
			Temperature:  temperature,
		})
		require.NoError(t, err)
		if result.Alert != nil {
			alertIDs = append(alertIDs, result.Alert.ID)
		}
	}
	require.Len(t, alertIDs, 2)

	t.Run("list filters by status band", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/alerts?status=critico")
		require.Equal(t, http.StatusOK, rec.Code)

		var alerts []*models.Alert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
		require.Len(t, alerts, 1)
		assert.Equal(t, models.StatusCritico, alerts[0].Status)
	})

	t.Run("list rejects unknown status band", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/alerts?status=bogus")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single acknowledge round-trips", func(t *testing.T) {
		rec := postJSON(router, fmt.Sprintf("/api/v1/alerts/%s/acknowledge", alertIDs[0]),
			map[string]any{"acknowledged_by": "op_alice"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var alert models.Alert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alert))
		assert.True(t, alert.Acknowledged)
		require.NotNil(t, alert.AcknowledgedBy)
		assert.Equal(t, "op_alice", *alert.AcknowledgedBy)
	})

	t.Run("acknowledging an unknown alert is 404", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/alerts/al_missing/acknowledge",
			map[string]any{"acknowledged_by": "op_alice"}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bulk acknowledge skips unknown ids", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/alerts/acknowledge", map[string]any{
			"alert_ids":       []string{alertIDs[1], "al_missing"},
			"acknowledged_by": "op_bob",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var alerts []*models.Alert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
		assert.Len(t, alerts, 1)
	})

	t.Run("stats reflect acknowledgements", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/alerts/stats")
		require.Equal(t, http.StatusOK, rec.Code)

		var stats models.AlertStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 0, stats.Unacknowledged)
	})
}

func TestDeviceEndpoints(t *testing.T) {
	router, svc, device := newTestRouter(t, "")
	ctx := context.Background()

	_, err := svc.IngestReading(ctx, hubservice.IngestInput{
		SerialNumber: device.SerialNumber,
		Temperature:  45.0,
	})
	require.NoError(t, err)

	t.Run("list returns registered devices", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/devices")
		require.Equal(t, http.StatusOK, rec.Code)

		var devices []*models.Device
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &devices))
		require.Len(t, devices, 1)
		assert.Equal(t, device.SerialNumber, devices[0].SerialNumber)
	})

	t.Run("status view includes the latest reading", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/devices/"+device.ID+"/status")
		require.Equal(t, http.StatusOK, rec.Code)

		var status models.DeviceStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		require.NotNil(t, status.LatestReading)
		assert.Equal(t, 45.0, status.LatestReading.Temperature)
		assert.Equal(t, "online", status.OnlineStatus)
	})

	t.Run("readings endpoint returns the range", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/devices/"+device.ID+"/readings")
		require.Equal(t, http.StatusOK, rec.Code)

		var readings []*models.Reading
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
		assert.Len(t, readings, 1)
	})

	t.Run("unknown device is 404", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/devices/dev_missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create then deactivate", func(t *testing.T) {
		rec := postJSON(router, "/api/v1/devices", map[string]any{
			"serial_number": "sparx-unit-02",
			"name":          "Trafo Sul",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created models.Device
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.NotEmpty(t, created.ID)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/devices/"+created.ID, nil)
		del := httptest.NewRecorder()
		router.ServeHTTP(del, req)
		assert.Equal(t, http.StatusNoContent, del.Code)
	})

	t.Run("health endpoint is public", func(t *testing.T) {
		rec := getJSON(router, "/api/v1/health")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
