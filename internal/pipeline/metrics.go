package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digestboard_pipeline_runs_total",
		Help: "Topic refreshes by outcome (ok, error, stale, throttled).",
	}, []string{"outcome"})
	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "digestboard_pipeline_duration_seconds",
		Help:    "Wall time of one pipeline run.",
		Buckets: prometheus.DefBuckets,
	})
)
