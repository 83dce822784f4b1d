// FilePath: internal/classify/classify.go

// Package classify maps a temperature value to its status band. The band
// thresholds are the product-wide constants the dashboard gauges and map
// legend are drawn from.
package classify

import (
	"fmt"
	"math"

	"github.com/sparxlab/sparx-hub/internal/models"
)

// Band thresholds in °C. Boundary values belong to the lower band.
const (
	AdequadoMax = 51.0
	PrecarioMax = 60.0
)

// Classify returns the status band for a temperature. It rejects non-finite
// values; every finite input maps to exactly one band.
func Classify(temperature float64) (models.StatusBand, error) {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return "", fmt.Errorf("temperature is not a finite number: %v", temperature)
	}

	switch {
	case temperature <= AdequadoMax:
		return models.StatusAdequado, nil
	case temperature <= PrecarioMax:
		return models.StatusPrecario, nil
	default:
		return models.StatusCritico, nil
	}
}
