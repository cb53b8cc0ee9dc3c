// Package metrics exposes Prometheus instruments for registry traffic,
// classification outcomes and host mutations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistryRequests counts registry page requests by outcome (ok, network_error, format_error)
	RegistryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slhn_registry_requests_total",
		Help: "Address registry page requests by outcome",
	}, []string{"outcome"})

	// RegistryRecords counts raw records received from the registry
	RegistryRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slhn_registry_records_total",
		Help: "Raw address records received from the registry",
	})

	// RegistryFetchDuration observes the duration of a full paginated fetch
	RegistryFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slhn_registry_fetch_seconds",
		Help:    "Duration of a complete paginated registry fetch",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	// SkippedRecords counts registry records dropped during mapping
	SkippedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slhn_mapping_skipped_records_total",
		Help: "Registry records skipped because required fields were missing",
	})

	// Classifications counts classified points by status (processed, conflict, missing)
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slhn_classifications_total",
		Help: "Address point classifications by resulting status",
	}, []string{"status"})

	// Resolutions counts segment resolutions by path (matched, fallback, none)
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slhn_segment_resolutions_total",
		Help: "Segment resolver outcomes",
	}, []string{"path"})

	// Mutations counts host mutation attempts by operation and outcome
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slhn_host_mutations_total",
		Help: "Host mutation attempts",
	}, []string{"operation", "outcome"})

	// Loads counts load cycles by outcome
	Loads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slhn_loads_total",
		Help: "Load cycles by outcome",
	}, []string{"outcome"})
)
