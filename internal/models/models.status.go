// FilePath: internal/models/models.status.go
package models

import "fmt"

// StatusBand is the temperature classification of a reading. It is a closed
// set: every reading and every device status carries exactly one of the three
// bands below.
type StatusBand string

const (
	// StatusAdequado is the normal operating band (t <= 51.0 °C).
	StatusAdequado StatusBand = "adequado"
	// StatusPrecario is the elevated band (51.0 < t <= 60.0 °C).
	StatusPrecario StatusBand = "precario"
	// StatusCritico is the critical band (t > 60.0 °C).
	StatusCritico StatusBand = "critico"
)

// Valid reports whether b is one of the three known bands.
func (b StatusBand) Valid() bool {
	switch b {
	case StatusAdequado, StatusPrecario, StatusCritico:
		return true
	}
	return false
}

func (b StatusBand) String() string {
	return string(b)
}

// ParseStatusBand converts a raw string into a StatusBand.
func ParseStatusBand(s string) (StatusBand, error) {
	band := StatusBand(s)
	if !band.Valid() {
		return "", fmt.Errorf("unknown status band %q", s)
	}
	return band, nil
}
