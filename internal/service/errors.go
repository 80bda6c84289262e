package service

import "errors"

var (
	// ErrLayerActive is returned when activating a layer that already runs.
	ErrLayerActive = errors.New("layer already active")

	// ErrLayerNotActive is returned when addressing a layer that is not
	// activated.
	ErrLayerNotActive = errors.New("layer not active")
)
