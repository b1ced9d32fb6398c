package mapview

import (
	"strconv"
	"time"

	"github.com/krople/gpsmapp/internal/models"
)

// Label styling.
const (
	CurrentGlyph   = "●"
	CurrentColor   = "#ff4757"
	SecondaryColor = "#667eea"
)

// AddressFunc returns a resolved address for a record, if one is known.
type AddressFunc func(record models.Location) (string, bool)

// Options configures a Reconciler.
type Options struct {
	Frame      Frame          // Frame the viewport is fitted into.
	SingleZoom int            // SingleZoom is used when there is exactly one record.
	Location   *time.Location // Location used to format detail timestamps.
	TimeLayout string         // TimeLayout used to format detail timestamps.
	Address    AddressFunc    // Address is optional.
}

// Plan is the outcome of reconciling a record list: the markers to show and
// the viewport to move to. Viewport is nil when the map must stay put.
type Plan struct {
	Markers  []MarkerEntry
	Viewport *Viewport
}

// Reconciler maps an ordered location history to a marker plan.
// It holds no state and never touches a widget.
type Reconciler struct {
	opts Options
}

// NewReconciler creates a Reconciler, filling unset options with defaults.
func NewReconciler(opts Options) *Reconciler {
	if opts.Frame == (Frame{}) {
		opts.Frame = DefaultFrame()
	}
	if opts.SingleZoom == 0 {
		opts.SingleZoom = DefaultSingleZoom
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = DefaultTimeLayout
	}

	return &Reconciler{opts: opts}
}

// Plan builds one marker per record. Records must be ordered newest first:
// the record at index i gets rank len(records)-i and only index 0 is latest.
// Coordinates are expected to be validated by the producer.
func (r *Reconciler) Plan(records []models.Location) Plan {
	if len(records) == 0 {
		return Plan{}
	}

	count := len(records)
	markers := make([]MarkerEntry, 0, count)
	points := make([]models.Coordinates, 0, count)

	for idx, record := range records {
		entry := MarkerEntry{
			Record:   record,
			Rank:     count - idx,
			IsLatest: idx == 0,
		}
		entry.Label = labelFor(entry.Rank, entry.IsLatest)

		var address string
		if r.opts.Address != nil {
			address, _ = r.opts.Address(record)
		}
		entry.Detail = buildDetail(record, r.opts.Location, r.opts.TimeLayout, address)

		markers = append(markers, entry)
		points = append(points, record.Coordinates())
	}

	viewport, ok := Fit(points, r.opts.Frame, r.opts.SingleZoom)
	if !ok {
		return Plan{Markers: markers}
	}

	return Plan{Markers: markers, Viewport: &viewport}
}

func labelFor(rank int, latest bool) Label {
	if latest {
		return Label{Text: CurrentGlyph, Color: CurrentColor, Current: true}
	}

	return Label{Text: strconv.Itoa(rank), Color: SecondaryColor}
}
