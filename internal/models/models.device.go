// FilePath: internal/models/models.device.go
package models

import "time"

// Device is a registered transformer temperature sensor unit.
// CurrentStatus and LastReadingAt are a denormalized cache of the most recent
// reading, maintained by the ingestion pipeline with a last-observed-wins
// policy. They are never derived per query.
type Device struct {
	ID               string     `json:"id" db:"id"`
	SerialNumber     string     `json:"serial_number" db:"serial_number"`
	Name             string     `json:"name" db:"name"`
	Location         string     `json:"location" db:"location"`
	Latitude         *float64   `json:"latitude" db:"latitude"`
	Longitude        *float64   `json:"longitude" db:"longitude"`
	Model            *string    `json:"model" db:"model"`
	InstallationDate *time.Time `json:"installation_date" db:"installation_date"`
	LastReadingAt    *time.Time `json:"last_reading_at" db:"last_reading_at"`
	CurrentStatus    StatusBand `json:"current_status" db:"current_status"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// DeviceStatus is the composite status view consumed by the dashboard.
type DeviceStatus struct {
	Device        *Device   `json:"device"`
	LatestReading *Reading  `json:"latest_reading"`
	OnlineStatus  string    `json:"online_status"`
	LastActivity  time.Time `json:"last_activity"`
}
