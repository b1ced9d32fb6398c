package widget_test

import (
	"encoding/json"
	"testing"

	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/krople/gpsmapp/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_Markers(t *testing.T) {
	scene := widget.NewScene()
	current := mapview.Label{Text: mapview.CurrentGlyph, Color: mapview.CurrentColor, Current: true}
	older := mapview.Label{Text: "1", Color: mapview.SecondaryColor}

	first := scene.AddMarker(models.Coordinates{Latitude: 37.5, Longitude: 127}, current)
	second := scene.AddMarker(models.Coordinates{Latitude: 37.4, Longitude: 126.9}, older)
	require.NotEqual(t, first, second)
	assert.Equal(t, 2, scene.Len())

	scene.BindDetail(first, mapview.Detail{Time: "2025-03-01 12:00:00"})
	scene.BindDetail("missing", mapview.Detail{Time: "ignored"})

	snapshot := scene.Snapshot()
	require.Len(t, snapshot.Markers, 2)
	assert.Equal(t, first, snapshot.Markers[0].Handle)
	require.NotNil(t, snapshot.Markers[0].Detail)
	assert.Equal(t, "2025-03-01 12:00:00", snapshot.Markers[0].Detail.Time)
	assert.Nil(t, snapshot.Markers[1].Detail)

	snapshot.Markers[0].Detail.Time = "mutated"
	assert.Equal(t, "2025-03-01 12:00:00", scene.Snapshot().Markers[0].Detail.Time)

	scene.RemoveMarker(first)
	scene.RemoveMarker(first)
	scene.RemoveMarker("missing")
	assert.Equal(t, 1, scene.Len())
	assert.Equal(t, second, scene.Snapshot().Markers[0].Handle)
}

func TestScene_Details(t *testing.T) {
	scene := widget.NewScene()
	handle := scene.AddMarker(models.Coordinates{}, mapview.Label{Text: "1"})

	assert.False(t, scene.OpenDetail("missing"))
	assert.True(t, scene.OpenDetail(handle))
	assert.Equal(t, handle, scene.Snapshot().Open)

	scene.CloseDetails()
	assert.Empty(t, scene.Snapshot().Open)

	scene.OpenDetail(handle)
	scene.RemoveMarker(handle)
	assert.Empty(t, scene.Snapshot().Open)
}

func TestScene_SnapshotJSON(t *testing.T) {
	scene := widget.NewScene()
	scene.SetViewport(mapview.Viewport{Center: models.Coordinates{Latitude: 37.5, Longitude: 127}, Zoom: 12})
	handle := scene.AddMarker(models.Coordinates{Latitude: 37.5, Longitude: 127}, mapview.Label{Text: "1", Color: "#667eea"})

	raw, err := json.Marshal(scene.Snapshot())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"viewport": {"center": {"latitude": 37.5, "longitude": 127}, "zoom": 12},
		"markers": [{
			"handle": "`+string(handle)+`",
			"position": {"latitude": 37.5, "longitude": 127},
			"label": {"text": "1", "color": "#667eea", "current": false}
		}]
	}`, string(raw))
}

func TestScene_WithSession(t *testing.T) {
	scene := widget.NewScene()
	session := mapview.NewSession(scene, mapview.NewReconciler(mapview.Options{}), mapview.Viewport{})
	records := []models.Location{
		{Latitude: 37.1, Longitude: 127.1},
		{Latitude: 37.2, Longitude: 127.2},
	}

	result, err := session.Reconcile(records)
	require.NoError(t, err)

	snapshot := scene.Snapshot()
	require.Len(t, snapshot.Markers, 2)
	assert.Equal(t, result.Viewport, snapshot.Viewport)
	assert.True(t, snapshot.Markers[0].Label.Current)
	assert.Equal(t, "1", snapshot.Markers[1].Label.Text)

	session.Dispose()
	assert.Equal(t, 0, scene.Len())
}
