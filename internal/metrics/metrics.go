package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeadsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_recorded_total",
			Help: "Record calls by outcome (recorded, noop, rejected, failed)",
		},
		[]string{"outcome"},
	)

	LeadActualMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_actual_matches_total",
			Help: "Sum of actual match counts written to store counters",
		},
	)

	LeadCountReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_count_reads_total",
			Help: "Lead count reads by source (cache, store, missing, failed)",
		},
		[]string{"source"},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)
)
