// Package metrics holds the Prometheus collectors for list fetches and views.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts list fetch attempts by outcome and error kind.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_list_fetch_total",
			Help: "Total number of list fetch attempts",
		},
		[]string{"outcome", "kind"},
	)

	// FetchDuration measures the full fetch-decode-map round trip.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokedex_list_fetch_duration_seconds",
			Help:    "List fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// FetchRecords tracks how many records the last successful fetch returned.
	FetchRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokedex_list_fetch_records",
			Help: "Number of records returned by the last successful fetch",
		},
	)

	// ActiveViews tracks the number of live views.
	ActiveViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokedex_active_views",
			Help: "Number of live list views",
		},
	)

	// AlertsSent counts web push alert deliveries by result.
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_alerts_sent_total",
			Help: "Total number of web push alert deliveries",
		},
		[]string{"result"},
	)
)

// RecordFetch records one fetch attempt.
func RecordFetch(outcome, kind string, duration time.Duration, count int) {
	FetchTotal.WithLabelValues(outcome, kind).Inc()
	FetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if kind == "" {
		FetchRecords.Set(float64(count))
	}
}

// RecordAlert records the result of one push delivery: "sent", "expired" or "error".
func RecordAlert(result string) {
	AlertsSent.WithLabelValues(result).Inc()
}
