package mapview

import "math"

// CoordinateTolerance absorbs the round trip through a 6 decimal display
// format. Distinct records closer than this are indistinguishable.
const CoordinateTolerance = 1e-6

// FindMarker returns the first entry whose record lies within
// CoordinateTolerance of the target on both axes.
func FindMarker(entries []MarkerEntry, lat, lng float64) (MarkerEntry, bool) {
	for _, entry := range entries {
		if math.Abs(entry.Record.Latitude-lat) < CoordinateTolerance &&
			math.Abs(entry.Record.Longitude-lng) < CoordinateTolerance {
			return entry, true
		}
	}

	return MarkerEntry{}, false
}
