// FilePath: internal/models/models.reading.go
package models

import "time"

// Reading is a single immutable temperature observation tied to a device.
// Status holds the band computed by the classifier at ingestion time.
type Reading struct {
	ID          string     `json:"id" db:"id"`
	DeviceID    string     `json:"device_id" db:"device_id"`
	Temperature float64    `json:"temperature" db:"temperature"`
	Status      StatusBand `json:"status" db:"status"`
	Timestamp   time.Time  `json:"timestamp" db:"timestamp"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ReadingAggregate is a bucketed min/max/avg summary used by the analytics
// charts.
type ReadingAggregate struct {
	DeviceID  string    `json:"device_id" db:"device_id"`
	Min       float64   `json:"min" db:"min"`
	Max       float64   `json:"max" db:"max"`
	Avg       float64   `json:"avg" db:"avg"`
	Count     int       `json:"count" db:"count"`
	StartTime time.Time `json:"start_time" db:"start_time"`
}
