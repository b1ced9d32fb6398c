package models

import (
	"errors"
	"math"
)

// ErrInvalidCoordinates is returned when a point is not finite or lies outside
// the WGS84 latitude/longitude ranges.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
}

// Validate reports ErrInvalidCoordinates for NaN, infinite or out of range values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return ErrInvalidCoordinates
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinates
	}

	return nil
}
