// FilePath: internal/bridge/bridge.go

// Package bridge subscribes to the sensor units' MQTT topic and forwards each
// reading to the hub's ingestion webhook. It keeps no state of its own; the
// hub classifies and persists.
package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-resty/resty/v2"
	"github.com/sparxlab/sparx-hub/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// SensorMessage is the JSON frame the firmware publishes.
type SensorMessage struct {
	DeviceLabel string   `json:"device_label"`
	Temperature *float64 `json:"temperature"`
	Status      string   `json:"status,omitempty"`
	Timestamp   *int64   `json:"timestamp,omitempty"` // epoch milliseconds
}

// webhookPayload mirrors the hub's inbound webhook contract.
type webhookPayload struct {
	DeviceLabel   string          `json:"device_label"`
	VariableLabel string          `json:"variable_label"`
	Value         float64         `json:"value"`
	Timestamp     *int64          `json:"timestamp,omitempty"`
	Context       *webhookContext `json:"context,omitempty"`
}

type webhookContext struct {
	Status      string `json:"status,omitempty"`
	DeviceLabel string `json:"device_label,omitempty"`
}

type webhookResponse struct {
	Success   bool   `json:"success"`
	ReadingID string `json:"reading_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Bridge connects the MQTT broker to the hub webhook.
type Bridge struct {
	client mqtt.Client
	http   *resty.Client
	cfg    *config.Config
}

// New creates a bridge; Connect must be called before messages flow.
func New(cfg *config.Config) *Bridge {
	b := &Bridge{cfg: cfg}

	b.http = resty.New().
		SetBaseURL(cfg.Bridge.HubURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	if cfg.Bridge.Token != "" {
		b.http.SetAuthToken(cfg.Bridge.Token)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetUsername(cfg.MQTT.Username)
	opts.SetPassword(cfg.MQTT.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		nuts.L.Infof("[Bridge] Connected to MQTT broker %s", cfg.MQTT.Broker)
		// (Re)subscribe on every connect so reconnects pick the topic back up.
		if err := b.subscribe(); err != nil {
			nuts.L.Errorf("[Bridge] Subscribe failed: %v", err)
		}
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		nuts.L.Warnf("[Bridge] MQTT connection lost: %v", err)
	})

	b.client = mqtt.NewClient(opts)
	return b
}

// Connect dials the broker and subscribes to the sensor topic.
func (b *Bridge) Connect() error {
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

func (b *Bridge) subscribe() error {
	token := b.client.Subscribe(b.cfg.MQTT.Topic, b.cfg.MQTT.QoS, b.handleMessage)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	nuts.L.Infof("[Bridge] Subscribed to topic %s (qos %d)", b.cfg.MQTT.Topic, b.cfg.MQTT.QoS)
	return nil
}

func (b *Bridge) handleMessage(client mqtt.Client, msg mqtt.Message) {
	var sensor SensorMessage
	if err := json.Unmarshal(msg.Payload(), &sensor); err != nil {
		nuts.L.Errorf("[Bridge] Dropping malformed message on %s: %v", msg.Topic(), err)
		return
	}
	if sensor.DeviceLabel == "" || sensor.Temperature == nil {
		nuts.L.Errorf("[Bridge] Dropping message on %s: device_label or temperature missing", msg.Topic())
		return
	}

	if err := b.Forward(sensor); err != nil {
		nuts.L.Errorf("[Bridge] Failed to forward reading for %s: %v", sensor.DeviceLabel, err)
	}
}

// Forward posts one sensor message to the hub webhook.
func (b *Bridge) Forward(sensor SensorMessage) error {
	payload := ToWebhookPayload(sensor)

	var result webhookResponse
	resp, err := b.http.R().
		SetBody(payload).
		SetResult(&result).
		SetError(&result).
		Post("/api/v1/webhook/readings")
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() || !result.Success {
		return fmt.Errorf("hub rejected reading: %s", result.Error)
	}

	nuts.L.Infof("[Bridge] Forwarded reading %s for %s (%.2f°C)",
		result.ReadingID, sensor.DeviceLabel, *sensor.Temperature)
	return nil
}

// ToWebhookPayload converts a sensor frame to the hub's webhook body. The
// sensor's own status travels as advisory context only.
func ToWebhookPayload(sensor SensorMessage) webhookPayload {
	payload := webhookPayload{
		DeviceLabel:   sensor.DeviceLabel,
		VariableLabel: "temperature",
		Value:         *sensor.Temperature,
		Timestamp:     sensor.Timestamp,
	}
	if sensor.Status != "" {
		payload.Context = &webhookContext{
			Status:      sensor.Status,
			DeviceLabel: sensor.DeviceLabel,
		}
	}
	return payload
}

// Close disconnects from the broker, letting in-flight handlers finish.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
	nuts.L.Infof("[Bridge] MQTT client disconnected")
}
