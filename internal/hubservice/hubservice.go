package hubservice

import (
	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/events"
	"github.com/sparxlab/sparx-hub/internal/repository"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Devices  repository.DeviceRepository
	Readings repository.ReadingRepository
	Alerts   repository.AlertRepository
	Events   *events.Emitter
}

// New creates a new HubService instance
func New(
	devices repository.DeviceRepository,
	readings repository.ReadingRepository,
	alerts repository.AlertRepository,
) *HubService {
	return &HubService{
		Devices:  devices,
		Readings: readings,
		Alerts:   alerts,
		Events:   events.NewEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *HubService) Validate() error {
	if s.Devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.Alerts == nil {
		return ErrMissingRepository("alerts")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
