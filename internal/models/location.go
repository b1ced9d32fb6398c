package models

import (
	"fmt"
	"time"
)

// Location is a single position saved by the location logger.
// Records are immutable once stored.
type Location struct {
	ID        int64     `json:"id,omitempty"`       // ID is assigned by the store.
	Latitude  float64   `json:"latitude"`           // Latitude in degrees.
	Longitude float64   `json:"longitude"`          // Longitude in degrees.
	Accuracy  *float64  `json:"accuracy,omitempty"` // Accuracy radius in meters, if reported.
	Altitude  *float64  `json:"altitude,omitempty"` // Altitude in meters, if reported.
	Speed     *float64  `json:"speed,omitempty"`    // Speed in m/s, if reported.
	Timestamp time.Time `json:"timestamp"`          // Timestamp is set by the producer.
}

// Coordinates returns the position of the record.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Validate checks the coordinates of the record.
func (l Location) Validate() error {
	if err := l.Coordinates().Validate(); err != nil {
		return fmt.Errorf("location at %v,%v: %w", l.Latitude, l.Longitude, err)
	}

	return nil
}

// Key identifies a record by timestamp and position, independent of the store ID.
func (l Location) Key() string {
	return fmt.Sprintf("%s|%.6f|%.6f", l.Timestamp.UTC().Format(time.RFC3339Nano), l.Latitude, l.Longitude)
}
