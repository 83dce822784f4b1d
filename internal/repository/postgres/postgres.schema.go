// FilePath: internal/repository/postgres/postgres.schema.go
package postgres

import (
	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/errors"
)

// InitSchema creates the hub tables and indexes if they do not exist yet.
// Called once on startup before the repositories are handed out.
func InitSchema(db database.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS devices (
			id TEXT PRIMARY KEY,
			serial_number TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			model TEXT,
			installation_date TIMESTAMPTZ,
			last_reading_at TIMESTAMPTZ,
			current_status TEXT NOT NULL DEFAULT 'adequado',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS temperature_readings (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_device_timestamp
			ON temperature_readings(device_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL,
			acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
			acknowledged_by TEXT,
			acknowledged_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at
			ON alerts(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_unacknowledged
			ON alerts(created_at DESC) WHERE acknowledged = FALSE`,
	}

	for _, query := range queries {
		if _, err := db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}
