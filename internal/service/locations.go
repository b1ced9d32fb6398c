package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/krople/gpsmapp/internal/geocoding"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/metrics"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/krople/gpsmapp/internal/repository"
)

// DefaultHistoryLimit is the number of records shown on the map when no limit is configured.
const DefaultHistoryLimit = 20

// Reconciliation triggers used as metric labels.
const (
	TriggerFetch  = "fetch"
	TriggerInsert = "insert"
	TriggerPoll   = "poll"
)

// LocationService keeps the map session in sync with the location store.
// It records new locations, reads back the history and resolves
// addresses for the detail surfaces of the shown markers.
type LocationService struct {
	log          *slog.Logger             // Logger for logging service activities
	repo         repository.LocationStore // Store holding the location history
	session      *mapview.Session         // Map session the history is reconciled into
	resolver     geocoding.Provider       // Reverse geocoder, nil when addresses are not resolved
	providerName string                   // Name of the provider for metrics labeling
	addresses    *AddressCache            // Addresses resolved so far
	metrics      *metrics.Metrics         // Metrics for tracking service performance
	numWorkers   int                      // Number of concurrent address resolvers
	pollInterval time.Duration            // Interval between background refreshes
	historyLimit int                      // Number of records reconciled into the map
	now          func() time.Time
}

// NewLocationService creates a new instance of LocationService.
// The resolver may be nil, in which case no addresses are looked up and the
// cache is only read by the reconciler. A non-positive historyLimit falls back
// to DefaultHistoryLimit and fewer than one worker is treated as one.
func NewLocationService(
	log *slog.Logger,
	repo repository.LocationStore,
	session *mapview.Session,
	resolver geocoding.Provider,
	providerName string,
	addresses *AddressCache,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	historyLimit int,
) *LocationService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if addresses == nil {
		addresses = NewAddressCache()
	}

	return &LocationService{
		log:          log,
		repo:         repo,
		session:      session,
		resolver:     resolver,
		providerName: providerName,
		addresses:    addresses,
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Run refreshes the map once and then on every poll interval until ctx is cancelled.
func (ls *LocationService) Run(ctx context.Context) {
	ticker := time.NewTicker(ls.pollInterval)
	defer ticker.Stop()

	ls.log.InfoContext(ctx, "Location service started...", "interval", ls.pollInterval)

	if _, err := ls.refresh(ctx, TriggerPoll); err != nil {
		ls.log.ErrorContext(ctx, "Initial refresh failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			ls.log.InfoContext(ctx, "Location service stopped.")
			return
		case <-ticker.C:
			ls.log.DebugContext(ctx, "Polling location history...")
			if _, err := ls.refresh(ctx, TriggerPoll); err != nil {
				ls.log.ErrorContext(ctx, "Scheduled refresh failed", "error", err)
			}
		}
	}
}

// Refresh fetches the newest history and reconciles it into the map session.
// A failed fetch leaves the map as it was.
func (ls *LocationService) Refresh(ctx context.Context) (mapview.Result, error) {
	return ls.refresh(ctx, TriggerFetch)
}

// Record validates and stores a new location, then refreshes the map.
// A zero timestamp is replaced with the current UTC time. When the insert
// fails nothing is reconciled.
func (ls *LocationService) Record(ctx context.Context, loc models.Location) (models.Location, mapview.Result, error) {
	if err := loc.Validate(); err != nil {
		return models.Location{}, mapview.Result{}, err
	}
	if loc.Timestamp.IsZero() {
		loc.Timestamp = ls.now().UTC()
	}

	startTime := time.Now()
	saved, err := ls.repo.InsertLocation(ctx, loc)
	ls.metrics.StoreSeconds.WithLabelValues("insert").Observe(time.Since(startTime).Seconds())
	if err != nil {
		ls.metrics.StoreErrors.WithLabelValues("insert").Inc()
		return models.Location{}, mapview.Result{}, fmt.Errorf("failed to save location: %w", err)
	}

	ls.log.InfoContext(ctx, "Location recorded",
		"id", saved.ID,
		"latitude", saved.Latitude,
		"longitude", saved.Longitude)

	result, err := ls.refresh(ctx, TriggerInsert)
	if err != nil {
		return saved, mapview.Result{}, err
	}

	return saved, result, nil
}

// History returns up to limit records, newest first. A non-positive limit
// uses the configured history limit.
func (ls *LocationService) History(ctx context.Context, limit int) ([]models.Location, error) {
	if limit <= 0 {
		limit = ls.historyLimit
	}

	return ls.list(ctx, limit)
}

// Locate returns the marker shown at the given coordinates and opens its detail.
func (ls *LocationService) Locate(ctx context.Context, lat, lng float64) (mapview.MarkerEntry, bool) {
	entry, ok := ls.session.Focus(lat, lng)
	if !ok {
		ls.log.InfoContext(ctx, "No marker found at coordinates", "latitude", lat, "longitude", lng)
		return mapview.MarkerEntry{}, false
	}

	return entry, true
}

// Snapshot returns the markers and viewport currently shown.
func (ls *LocationService) Snapshot() ([]mapview.MarkerEntry, mapview.Viewport) {
	return ls.session.Entries(), ls.session.Viewport()
}

func (ls *LocationService) refresh(ctx context.Context, trigger string) (mapview.Result, error) {
	records, err := ls.list(ctx, ls.historyLimit)
	if err != nil {
		return mapview.Result{}, err
	}

	if ls.resolver != nil {
		ls.resolveAddresses(ctx, records)
	}

	result, err := ls.session.Reconcile(records)
	if err != nil {
		return mapview.Result{}, fmt.Errorf("failed to reconcile map: %w", err)
	}

	ls.metrics.ReconcilePasses.WithLabelValues(trigger).Inc()
	ls.metrics.VisibleMarkers.Set(float64(len(result.Entries)))

	ls.log.DebugContext(ctx, "Map refreshed",
		"trigger", trigger,
		"markers", len(result.Entries),
		"viewport_changed", result.ViewportChanged)

	return result, nil
}

func (ls *LocationService) list(ctx context.Context, limit int) ([]models.Location, error) {
	startTime := time.Now()
	records, err := ls.repo.ListLocations(ctx, limit)
	ls.metrics.StoreSeconds.WithLabelValues("list").Observe(time.Since(startTime).Seconds())
	if err != nil {
		ls.metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	return records, nil
}

// resolveAddresses looks up the records without a cached address using a
// pool of workers and waits for all of them to finish.
func (ls *LocationService) resolveAddresses(ctx context.Context, records []models.Location) {
	missing := ls.addresses.Missing(records)
	if len(missing) == 0 {
		return
	}

	workers := min(ls.numWorkers, len(missing))
	ls.log.DebugContext(ctx, "Resolving addresses", "jobs", len(missing), "num_workers", workers)

	jobs := make(chan models.Location, len(missing))
	var wgr sync.WaitGroup

	for i := 1; i <= workers; i++ {
		wgr.Add(1)
		go ls.worker(ctx, i, &wgr, jobs)
	}

	for _, record := range missing {
		jobs <- record
	}
	close(jobs)

	wgr.Wait()
}

// worker resolves addresses from the jobs channel and stores them in the cache.
// Failures are logged and counted; the record is retried on the next refresh.
func (ls *LocationService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Location) {
	defer wg.Done()
	for record := range jobs {
		ls.metrics.ActiveWorkers.Inc()

		startTime := time.Now()
		address, err := ls.resolver.Reverse(ctx, record.Coordinates())
		ls.metrics.GeocodeSeconds.WithLabelValues(ls.providerName).Observe(time.Since(startTime).Seconds())

		if err != nil {
			ls.log.WarnContext(ctx, "Failed to resolve address",
				"worker", idx,
				"record", record.ID,
				"error", err)
			ls.metrics.GeocodeErrors.Inc()
		} else {
			ls.addresses.Store(record, address)
			ls.log.DebugContext(ctx, "Address resolved", "worker", idx, "record", record.ID)
		}

		ls.metrics.ActiveWorkers.Dec()
	}
}
