package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReconcilePasses *prometheus.CounterVec
	VisibleMarkers  prometheus.Gauge
	StoreSeconds    *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec
	GeocodeSeconds  *prometheus.HistogramVec
	GeocodeErrors   prometheus.Counter
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ReconcilePasses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gpsmapp_reconcile_passes_total",
			Help: "Total number of map reconciliation passes.",
		}, []string{"trigger"}),
		VisibleMarkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gpsmapp_visible_markers",
			Help: "Number of markers shown on the map after the last reconciliation.",
		}),
		StoreSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gpsmapp_store_request_duration_seconds",
			Help:    "Duration of location store requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		StoreErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gpsmapp_store_errors_total",
			Help: "Total number of failed location store requests.",
		}, []string{"operation"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gpsmapp_geocoding_request_duration_seconds",
			Help:    "Duration of reverse geocoding requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gpsmapp_geocoding_errors_total",
			Help: "Total number of errors received from the reverse geocoding provider.",
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gpsmapp_geocoding_active_workers",
			Help: "Current number of workers resolving addresses.",
		}),
	}
}
