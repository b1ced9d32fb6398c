package mapview

import (
	"fmt"

	"github.com/krople/gpsmapp/internal/models"
)

// MemoryGlyph labels every memory marker.
const MemoryGlyph = "🔒"

// MemoryMarker is a marker derived from one memory.
type MemoryMarker struct {
	Memory models.Memory
	Label  Label
	Detail Detail
}

// MemoryPlan is the set of memory markers and the viewport enclosing them.
// Viewport is nil when there is nothing to show.
type MemoryPlan struct {
	Markers  []MemoryMarker
	Viewport *Viewport
}

// PlanMemories builds one locked marker per memory, with the memory name,
// creation time and description as its detail, and fits the viewport to all of them.
func (r *Reconciler) PlanMemories(memories []models.Memory) MemoryPlan {
	if len(memories) == 0 {
		return MemoryPlan{}
	}

	markers := make([]MemoryMarker, 0, len(memories))
	points := make([]models.Coordinates, 0, len(memories))
	for _, memory := range memories {
		markers = append(markers, MemoryMarker{
			Memory: memory,
			Label:  Label{Text: MemoryGlyph, Color: SecondaryColor},
			Detail: Detail{
				Title:       MemoryGlyph + " " + memory.Name,
				Time:        memory.CreatedAt.In(r.opts.Location).Format(r.opts.TimeLayout),
				Latitude:    fmt.Sprintf("%.6f", memory.Latitude),
				Longitude:   fmt.Sprintf("%.6f", memory.Longitude),
				Description: memory.Description,
				MapURL:      fmt.Sprintf(MapLinkFormat, memory.Latitude, memory.Longitude),
			},
		})
		points = append(points, memory.Coordinates())
	}

	viewport, ok := Fit(points, r.opts.Frame, r.opts.SingleZoom)
	if !ok {
		return MemoryPlan{Markers: markers}
	}

	return MemoryPlan{Markers: markers, Viewport: &viewport}
}

// Draw adds the planned markers and their details to w and moves it to the
// planned viewport. It returns the new handles in plan order.
func (p MemoryPlan) Draw(w Widget) []Handle {
	handles := make([]Handle, 0, len(p.Markers))
	for _, marker := range p.Markers {
		handle := w.AddMarker(marker.Memory.Coordinates(), marker.Label)
		w.BindDetail(handle, marker.Detail)
		handles = append(handles, handle)
	}
	if p.Viewport != nil {
		w.SetViewport(*p.Viewport)
	}

	return handles
}
