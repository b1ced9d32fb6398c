package models

import "time"

// Memory is a named place locked in by a user, optionally with co-creators,
// tagged users and photos.
type Memory struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Creators    []string  `json:"creators"`
	TaggedUsers []string  `json:"tagged_users"`
	Photos      []string  `json:"photos"` // Photos are image data URLs.
	CreatedAt   time.Time `json:"created_at"`
}

// Coordinates returns the position the memory is tied to.
func (m Memory) Coordinates() Coordinates {
	return Coordinates{Latitude: m.Latitude, Longitude: m.Longitude}
}
