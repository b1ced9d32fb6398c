package widget

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/krople/gpsmapp/internal/mapview"
	"googlemaps.github.io/maps"
)

// ErrStaticMapUnavailable is returned when no Static Maps client is configured.
var ErrStaticMapUnavailable = errors.New("static map rendering is not configured")

// StaticMapClient is the subset of the Google Maps client used for rendering.
type StaticMapClient interface {
	StaticMap(ctx context.Context, r *maps.StaticMapRequest) (image.Image, error)
}

// StaticMap is a Scene that can be rendered as a Google Static Maps image.
type StaticMap struct {
	*Scene

	client StaticMapClient
	width  int
	height int
	log    *slog.Logger
}

var _ mapview.Widget = (*StaticMap)(nil)

// NewStaticMap creates a static map widget of the given pixel size.
// A nil client yields ErrStaticMapUnavailable on Render.
func NewStaticMap(client StaticMapClient, width, height int, log *slog.Logger) *StaticMap {
	return &StaticMap{
		Scene:  NewScene(),
		client: client,
		width:  width,
		height: height,
		log:    log,
	}
}

// Request builds the Static Maps request for the current scene.
func (sm *StaticMap) Request() *maps.StaticMapRequest {
	snapshot := sm.Snapshot()

	req := &maps.StaticMapRequest{
		Center: fmt.Sprintf("%.6f,%.6f", snapshot.Viewport.Center.Latitude, snapshot.Viewport.Center.Longitude),
		Zoom:   snapshot.Viewport.Zoom,
		Size:   fmt.Sprintf("%dx%d", sm.width, sm.height),
	}
	for _, overlay := range snapshot.Markers {
		req.Markers = append(req.Markers, maps.Marker{
			Color:    staticColor(overlay.Label.Color),
			Label:    staticLabel(overlay.Label),
			Location: []maps.LatLng{{Lat: overlay.Position.Latitude, Lng: overlay.Position.Longitude}},
		})
	}

	return req
}

// Render writes the scene as a PNG image.
func (sm *StaticMap) Render(ctx context.Context, w io.Writer) error {
	if sm.client == nil {
		return ErrStaticMapUnavailable
	}

	req := sm.Request()
	sm.log.DebugContext(ctx, "Rendering static map", "markers", len(req.Markers), "zoom", req.Zoom)

	img, err := sm.client.StaticMap(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to render static map: %w", err)
	}

	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode static map: %w", err)
	}

	return nil
}

// staticLabel maps a marker label to the single [A-Z0-9] character Static
// Maps accepts. Ranks above 9 get no label.
func staticLabel(label mapview.Label) string {
	if label.Current {
		return "C"
	}
	if rank, err := strconv.Atoi(label.Text); err == nil && rank >= 0 && rank <= 9 {
		return label.Text
	}

	return ""
}

func staticColor(color string) string {
	if strings.HasPrefix(color, "#") {
		return "0x" + strings.TrimPrefix(color, "#")
	}

	return color
}
