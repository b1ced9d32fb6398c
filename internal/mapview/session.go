package mapview

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/krople/gpsmapp/internal/models"
)

// ErrSessionDisposed is returned when a disposed session is asked to reconcile.
var ErrSessionDisposed = errors.New("map session is disposed")

// Result describes one reconciliation pass.
type Result struct {
	Entries         []MarkerEntry `json:"entries"`
	Viewport        Viewport      `json:"viewport"`
	ViewportChanged bool          `json:"viewport_changed"`
	Added           int           `json:"added"`
	Removed         int           `json:"removed"`
	Kept            int           `json:"kept"`
}

// Session owns a widget together with the markers currently shown on it.
// Its lifecycle is NewSession, any number of Reconcile calls, then Dispose.
// Calls are serialized; the last Reconcile wins.
type Session struct {
	mu          sync.Mutex
	widget      Widget
	reconciler  *Reconciler
	log         *slog.Logger
	entries     []MarkerEntry
	viewport    Viewport
	incremental bool
	disposed    bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithIncremental keeps the widget markers of records that are still present
// with an unchanged label instead of rebuilding every marker.
func WithIncremental() SessionOption {
	return func(s *Session) {
		s.incremental = true
	}
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession creates a session and moves the widget to the initial viewport.
func NewSession(widget Widget, reconciler *Reconciler, initial Viewport, opts ...SessionOption) *Session {
	session := &Session{
		widget:     widget,
		reconciler: reconciler,
		log:        slog.Default(),
		viewport:   initial,
	}
	for _, opt := range opts {
		opt(session)
	}

	widget.SetViewport(initial)

	return session
}

// Reconcile replaces the markers on the widget with one marker per record.
// Records must be ordered newest first. An empty list clears the map and
// leaves the viewport untouched.
func (s *Session) Reconcile(records []models.Location) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return Result{}, ErrSessionDisposed
	}

	plan := s.reconciler.Plan(records)

	s.widget.CloseDetails()

	var result Result
	if s.incremental {
		result = s.applyIncremental(plan.Markers)
	} else {
		result = s.applyReplace(plan.Markers)
	}

	if plan.Viewport != nil {
		s.viewport = *plan.Viewport
		s.widget.SetViewport(s.viewport)
		result.ViewportChanged = true
	}
	result.Viewport = s.viewport
	result.Entries = s.snapshot()

	s.log.Debug("Map session reconciled",
		"markers", len(s.entries),
		"added", result.Added,
		"removed", result.Removed,
		"kept", result.Kept,
		"zoom", s.viewport.Zoom)

	return result, nil
}

func (s *Session) applyReplace(planned []MarkerEntry) Result {
	removed := s.clear()

	for i := range planned {
		s.show(&planned[i])
	}
	s.entries = planned

	return Result{Added: len(planned), Removed: removed}
}

func (s *Session) applyIncremental(planned []MarkerEntry) Result {
	previous := make(map[string][]MarkerEntry, len(s.entries))
	for _, entry := range s.entries {
		key := entry.Record.Key()
		previous[key] = append(previous[key], entry)
	}

	var result Result
	for i := range planned {
		key := planned[i].Record.Key()
		candidates := previous[key]
		if len(candidates) > 0 && candidates[0].Label == planned[i].Label {
			planned[i].Handle = candidates[0].Handle
			previous[key] = candidates[1:]
			s.widget.BindDetail(planned[i].Handle, planned[i].Detail)
			result.Kept++

			continue
		}
		s.show(&planned[i])
		result.Added++
	}

	for _, stale := range previous {
		for _, entry := range stale {
			s.widget.RemoveMarker(entry.Handle)
			result.Removed++
		}
	}
	s.entries = planned

	return result
}

func (s *Session) show(entry *MarkerEntry) {
	entry.Handle = s.widget.AddMarker(entry.Record.Coordinates(), entry.Label)
	s.widget.BindDetail(entry.Handle, entry.Detail)
}

func (s *Session) clear() int {
	removed := len(s.entries)
	for _, entry := range s.entries {
		s.widget.RemoveMarker(entry.Handle)
	}
	s.entries = nil

	return removed
}

func (s *Session) snapshot() []MarkerEntry {
	entries := make([]MarkerEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// Entries returns a copy of the markers currently shown.
func (s *Session) Entries() []MarkerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Viewport returns the current viewport.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewport
}

// Find looks up a shown marker by coordinates, see FindMarker.
func (s *Session) Find(lat, lng float64) (MarkerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return FindMarker(s.entries, lat, lng)
}

// Focus looks up a shown marker like Find and opens its detail on the widget.
func (s *Session) Focus(lat, lng float64) (MarkerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := FindMarker(s.entries, lat, lng)
	if !ok {
		return MarkerEntry{}, false
	}
	if !s.widget.OpenDetail(entry.Handle) {
		s.log.Warn("Widget lost the marker to focus", "handle", entry.Handle)
	}

	return entry, true
}

// Dispose removes every marker from the widget. It is safe to call more than once.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.widget.CloseDetails()
	s.clear()
	s.disposed = true
}
