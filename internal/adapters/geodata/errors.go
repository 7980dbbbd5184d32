// Package geodata fetches the boundary and label collections a map view
// draws, optionally through a Redis cache.
package geodata

import "errors"

// Sentinel kinds for geodata errors.
var (
	ErrNotFound        = errors.New("geodata source not found")
	ErrInvalidSourceID = errors.New("invalid geodata source id")
	ErrFetch           = errors.New("geodata fetch failed")
)
