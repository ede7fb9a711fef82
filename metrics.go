package binarysniffer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the Engine Façade, grounded on claircore's
// datastore/postgres/store_metrics.go promauto convention.
var (
	filesAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "binarysniffer",
		Subsystem: "engine",
		Name:      "files_analyzed_total",
		Help:      "Number of files run through Analyze, by file type.",
	}, []string{"file_type"})

	matchesEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "binarysniffer",
		Subsystem: "engine",
		Name:      "matches_emitted_total",
		Help:      "Number of component matches emitted, by match method.",
	}, []string{"method"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "binarysniffer",
		Subsystem: "engine",
		Name:      "analysis_duration_seconds",
		Help:      "Wall-clock duration of a single file's analysis.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"file_type"})

	analysisErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "binarysniffer",
		Subsystem: "engine",
		Name:      "analysis_errors_total",
		Help:      "Number of per-file analysis errors, by error kind.",
	}, []string{"kind"})
)
