package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var topicsVisible = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "digestboard_topics_visible",
	Help: "Topics matching the most recent list request before paging.",
})
