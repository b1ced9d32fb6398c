// Package widget provides map renderers for mapview sessions.
package widget

import (
	"sync"

	"github.com/google/uuid"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
)

// Overlay is a marker held by a Scene.
type Overlay struct {
	Handle   mapview.Handle     `json:"handle"`
	Position models.Coordinates `json:"position"`
	Label    mapview.Label      `json:"label"`
	Detail   *mapview.Detail    `json:"detail,omitempty"`
}

// Snapshot is the serializable state of a Scene, consumed by the Leaflet page.
type Snapshot struct {
	Viewport mapview.Viewport `json:"viewport"`
	Markers  []Overlay        `json:"markers"`
	Open     mapview.Handle   `json:"open,omitempty"`
}

// Scene is an in-memory map widget. It is safe for concurrent use.
type Scene struct {
	mu       sync.RWMutex
	viewport mapview.Viewport
	markers  map[mapview.Handle]*Overlay
	order    []mapview.Handle
	open     mapview.Handle
}

var _ mapview.Widget = (*Scene)(nil)

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{markers: make(map[mapview.Handle]*Overlay)}
}

// AddMarker adds a marker and returns its new handle.
func (s *Scene) AddMarker(position models.Coordinates, label mapview.Label) mapview.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := mapview.Handle(uuid.NewString())
	s.markers[handle] = &Overlay{Handle: handle, Position: position, Label: label}
	s.order = append(s.order, handle)

	return handle
}

// RemoveMarker drops a marker and its detail. Unknown handles are ignored.
func (s *Scene) RemoveMarker(handle mapview.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[handle]; !ok {
		return
	}
	delete(s.markers, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.open == handle {
		s.open = ""
	}
}

// SetViewport moves the scene.
func (s *Scene) SetViewport(viewport mapview.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = viewport
}

// BindDetail attaches detail content to a marker.
func (s *Scene) BindDetail(handle mapview.Handle, detail mapview.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if overlay, ok := s.markers[handle]; ok {
		overlay.Detail = &detail
	}
}

// OpenDetail marks the detail of a marker as open, as a "jump to" does.
func (s *Scene) OpenDetail(handle mapview.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[handle]; !ok {
		return false
	}
	s.open = handle

	return true
}

// CloseDetails closes the open detail surface, if any.
func (s *Scene) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = ""
}

// Len returns the number of markers.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.markers)
}

// Snapshot returns a copy of the scene with markers in insertion order.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markers := make([]Overlay, 0, len(s.order))
	for _, handle := range s.order {
		overlay := *s.markers[handle]
		if overlay.Detail != nil {
			detail := *overlay.Detail
			overlay.Detail = &detail
		}
		markers = append(markers, overlay)
	}

	return Snapshot{Viewport: s.viewport, Markers: markers, Open: s.open}
}
