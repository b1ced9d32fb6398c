package mapview

import (
	"math"

	"github.com/krople/gpsmapp/internal/models"
	"github.com/wroge/wgs84"
)

// Zoom levels on the standard 256px web tile scheme.
const (
	DefaultSingleZoom = 15
	DefaultMinZoom    = 0
	DefaultMaxZoom    = 19

	tileSize = 256
	// earthCircumference is the EPSG:3857 world width in meters.
	earthCircumference = 2 * math.Pi * 6378137
	// maxMercatorLatitude is the latitude at which EPSG:3857 becomes square.
	maxMercatorLatitude = 85.05112878
)

var (
	toMercator = wgs84.EPSG().Transform(4326, 3857)
	toLonLat   = wgs84.EPSG().Transform(3857, 4326)
)

// Frame describes the pixel area the viewport is fitted into.
type Frame struct {
	Width   int // Width of the map widget in pixels.
	Height  int // Height of the map widget in pixels.
	Padding int // Padding kept free on every side, in pixels.
	MinZoom int // MinZoom is the lowest zoom the widget allows.
	MaxZoom int // MaxZoom is the highest zoom the widget allows.
}

// DefaultFrame returns an 800x600 frame with the standard zoom range.
func DefaultFrame() Frame {
	return Frame{Width: 800, Height: 600, Padding: 20, MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom}
}

func (f Frame) clamp(zoom int) int {
	if zoom > f.MaxZoom {
		zoom = f.MaxZoom
	}
	if zoom < f.MinZoom {
		zoom = f.MinZoom
	}

	return zoom
}

// Fit chooses a viewport showing every point.
// A single point is centered at singleZoom; several points get the closest
// zoom at which their projected bounds fit the frame, clamped to the frame's
// zoom range. Latitudes beyond the Mercator limit are projected at the limit.
// It returns false for an empty input.
func Fit(points []models.Coordinates, frame Frame, singleZoom int) (Viewport, bool) {
	switch len(points) {
	case 0:
		return Viewport{}, false
	case 1:
		return Viewport{Center: points[0], Zoom: frame.clamp(singleZoom)}, true
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		lat := math.Max(-maxMercatorLatitude, math.Min(maxMercatorLatitude, p.Latitude))
		x, y, _ := toMercator(p.Longitude, lat, 0)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	lon, lat, _ := toLonLat((minX+maxX)/2, (minY+maxY)/2, 0)
	center := models.Coordinates{Latitude: lat, Longitude: lon}

	return Viewport{Center: center, Zoom: frame.clamp(boundsZoom(maxX-minX, maxY-minY, frame))}, true
}

// boundsZoom returns the highest integer zoom at which a dx by dy meter
// extent fits the frame.
func boundsZoom(dx, dy float64, frame Frame) int {
	width := math.Max(float64(frame.Width-2*frame.Padding), 1)
	height := math.Max(float64(frame.Height-2*frame.Padding), 1)

	scale := math.Inf(1)
	if dx > 0 {
		scale = width / dx
	}
	if dy > 0 {
		scale = math.Min(scale, height/dy)
	}
	if math.IsInf(scale, 1) {
		return frame.MaxZoom
	}

	zoom := math.Floor(math.Log2(scale * earthCircumference / tileSize))
	if zoom > float64(frame.MaxZoom) {
		return frame.MaxZoom
	}

	return int(zoom)
}
