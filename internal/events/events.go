// FilePath: internal/events/events.go

// Package events carries the hub's domain events. The core emits them and is
// agnostic to how subscribers deliver them onward (Redis push, polling, logs).
package events

import (
	nuts "github.com/vaudience/go-nuts"
)

// Domain event topics.
const (
	ReadingIngested   = "reading.ingested"
	AlertCreated      = "alert.created"
	AlertAcknowledged = "alert.acknowledged"
	DeviceUpdated     = "device.updated"
)

// Emitter is a thin wrapper over the nuts event emitter with typed topics.
type Emitter struct {
	events *nuts.EventEmitter
}

func NewEmitter() *Emitter {
	return &Emitter{events: nuts.NewEventEmitter()}
}

// Emit publishes a payload on a topic.
func (e *Emitter) Emit(topic string, payload any) {
	e.events.Emit(topic, payload)
}

// On registers a handler for a topic. The name keys the registration.
func (e *Emitter) On(topic, name string, handler func(payload any)) {
	e.events.On(topic, name, func(args ...interface{}) {
		if len(args) > 0 {
			handler(args[0])
		}
	})
}
