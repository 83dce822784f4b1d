// FilePath: internal/bridge/bridge_test.go
package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sparxlab/sparx-hub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWebhookPayload(t *testing.T) {
	temperature := 65.0
	ts := int64(1756588800000)

	t.Run("carries the sensor status as advisory context", func(t *testing.T) {
		payload := ToWebhookPayload(SensorMessage{
			DeviceLabel: "sparx-unit-01",
			Temperature: &temperature,
			Status:      "critico",
			Timestamp:   &ts,
		})

		assert.Equal(t, "sparx-unit-01", payload.DeviceLabel)
		assert.Equal(t, "temperature", payload.VariableLabel)
		assert.Equal(t, temperature, payload.Value)
		require.NotNil(t, payload.Timestamp)
		assert.Equal(t, ts, *payload.Timestamp)
		require.NotNil(t, payload.Context)
		assert.Equal(t, "critico", payload.Context.Status)
	})

	t.Run("omits context when the sensor sent no status", func(t *testing.T) {
		payload := ToWebhookPayload(SensorMessage{
			DeviceLabel: "sparx-unit-01",
			Temperature: &temperature,
		})

		assert.Nil(t, payload.Context)
		assert.Nil(t, payload.Timestamp)
	})
}

func TestForward(t *testing.T) {
	temperature := 45.5

	t.Run("posts the reading and reads back the id", func(t *testing.T) {
		var received webhookPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/webhook/readings", r.URL.Path)
			require.Equal(t, "Bearer bridge-secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(webhookResponse{Success: true, ReadingID: "rd_test"})
		}))
		defer srv.Close()

		b := New(&config.Config{
			Bridge: config.BridgeConfig{HubURL: srv.URL, Token: "bridge-secret"},
			MQTT:   config.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "test"},
		})

		err := b.Forward(SensorMessage{DeviceLabel: "sparx-unit-01", Temperature: &temperature})
		require.NoError(t, err)
		assert.Equal(t, "sparx-unit-01", received.DeviceLabel)
		assert.Equal(t, temperature, received.Value)
	})

	t.Run("hub rejection surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(webhookResponse{Success: false, Error: "no active device"})
		}))
		defer srv.Close()

		b := New(&config.Config{
			Bridge: config.BridgeConfig{HubURL: srv.URL},
			MQTT:   config.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "test"},
		})

		err := b.Forward(SensorMessage{DeviceLabel: "ghost-01", Temperature: &temperature})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no active device")
	})
}
