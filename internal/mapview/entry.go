// Package mapview turns an ordered location history into map markers and a
// viewport, and keeps a map widget in sync with that plan.
package mapview

import "github.com/krople/gpsmapp/internal/models"

// Handle is an opaque reference to a marker owned by a Widget.
type Handle string

// Label is the visual marker label.
type Label struct {
	Text    string `json:"text"`    // Text is the "current" glyph for the latest entry, the rank otherwise.
	Color   string `json:"color"`   // Color is a CSS hex color.
	Current bool   `json:"current"` // Current flags the most recent record.
}

// Viewport is a map center and zoom level.
type Viewport struct {
	Center models.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

// MarkerEntry is a marker derived from one location record.
type MarkerEntry struct {
	Record   models.Location `json:"record"`
	Rank     int             `json:"rank"`      // Rank is 1 for the oldest record and N for the newest.
	IsLatest bool            `json:"is_latest"` // IsLatest is true only for the first record of the input.
	Label    Label           `json:"label"`
	Detail   Detail          `json:"detail"`
	Handle   Handle          `json:"handle,omitempty"`
}

// Widget is the capability set of a map renderer.
// RemoveMarker must be a no-op for unknown handles and OpenDetail reports
// false for them.
type Widget interface {
	AddMarker(position models.Coordinates, label Label) Handle
	RemoveMarker(handle Handle)
	SetViewport(viewport Viewport)
	BindDetail(handle Handle, detail Detail)
	OpenDetail(handle Handle) bool
	CloseDetails()
}
