package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	employeeIDsAllocated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "helper_registry",
			Name:      "employee_ids_allocated_total",
			Help:      "Employee ids handed out by the sequence allocator",
		},
	)

	// partialWrites counts helper writes whose summary write failed
	partialWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helper_registry",
			Name:      "partial_writes_total",
			Help:      "Helper writes left without a matching summary write",
		},
		[]string{"operation"},
	)

	summaryRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helper_registry",
			Name:      "summary_repairs_total",
			Help:      "Summary rows upserted or deleted by the reconciler",
		},
		[]string{"action"},
	)

	listingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helper_registry",
			Name:      "listing_cache_total",
			Help:      "Listing cache lookups by result; stale counts loads dropped after a concurrent invalidation",
		},
		[]string{"result"},
	)
)
