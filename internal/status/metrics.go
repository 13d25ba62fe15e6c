package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var statusOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "digestboard_status_ops_total",
	Help: "Flag store operations by store, operation and outcome.",
}, []string{"store", "op", "outcome"})

func observe(store, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	statusOps.WithLabelValues(store, op, outcome).Inc()
}
