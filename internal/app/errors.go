package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrLayerOwned     = errors.New("layer is not externally controlled")
	ErrSelectionOwned = errors.New("province selection is not externally controlled")
)
