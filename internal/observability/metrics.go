package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lsapi_load_seconds",
		Help:    "Time spent loading the target packages.",
		Buckets: prometheus.DefBuckets,
	})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lsapi_build_seconds",
		Help:    "Time spent walking namespaces and building the tree.",
		Buckets: prometheus.DefBuckets,
	})

	TreeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lsapi_tree_nodes",
		Help: "Number of nodes in the most recently built tree.",
	})

	MembersSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lsapi_members_skipped_total",
		Help: "Total number of members skipped because they could not be read.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lsapi_watcher_events_total",
		Help: "Total number of debounced change batches received in watch mode.",
	})

	RebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lsapi_rebuilds_total",
		Help: "Total number of re-inspections triggered by watch mode.",
	})
)
