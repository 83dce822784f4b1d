// FilePath: internal/notify/notify.redis.go

// Package notify pushes domain events to the dashboard's realtime channel.
// The REST list endpoints remain the polling fallback when no subscriber is
// attached.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sparxlab/sparx-hub/internal/config"
	"github.com/sparxlab/sparx-hub/internal/events"
	nuts "github.com/vaudience/go-nuts"
)

// Channel names the dashboard subscribes to.
const (
	ChannelReadings = "sparx.readings"
	ChannelAlerts   = "sparx.alerts"
	ChannelDevices  = "sparx.devices"
)

const publishTimeout = 2 * time.Second

// Envelope is the JSON frame published on every channel.
type Envelope struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RedisPublisher forwards domain events to Redis pub/sub channels.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(cfg config.RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	nuts.L.Infof("[Notify] Connected to redis at %s:%d", cfg.Host, cfg.Port)
	return &RedisPublisher{client: client}, nil
}

// Attach registers the publisher on the emitter's domain event topics.
func (p *RedisPublisher) Attach(emitter *events.Emitter) {
	emitter.On(events.ReadingIngested, "redis_notify", func(payload any) {
		p.publish(events.ReadingIngested, ChannelReadings, payload)
	})
	emitter.On(events.AlertCreated, "redis_notify", func(payload any) {
		p.publish(events.AlertCreated, ChannelAlerts, payload)
	})
	emitter.On(events.AlertAcknowledged, "redis_notify", func(payload any) {
		p.publish(events.AlertAcknowledged, ChannelAlerts, payload)
	})
	emitter.On(events.DeviceUpdated, "redis_notify", func(payload any) {
		p.publish(events.DeviceUpdated, ChannelDevices, payload)
	})
}

func (p *RedisPublisher) publish(event, channel string, payload any) {
	body, err := json.Marshal(Envelope{
		Event:     event,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		nuts.L.Errorf("[Notify] Failed to marshal %s event: %v", event, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		// Realtime push is best-effort; the dashboard polls as fallback.
		nuts.L.Warnf("[Notify] Failed to publish %s to %s: %v", event, channel, err)
	}
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
