package discovery

import (
	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/pkg/logger"
)

// Service answers "who can serve this request, and how far away are they".
// It owns location resolution, the candidate prefilter, eligibility marking
// and distance ranking. It never mutates the worker directory.
type Service struct {
	store    DirectoryStore
	geocoder Geocoder
	device   DeviceLocator

	cfg config.SearchConfig
	log logger.Logger
}

func New(store DirectoryStore, geocoder Geocoder, device DeviceLocator, cfg config.SearchConfig, log logger.Logger) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		device:   device,
		cfg:      cfg,
		log:      log,
	}
}
