package synthos

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var remoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "digestboard_remote_calls_total",
	Help: "Calls made to the Synthos data service by operation and outcome.",
}, []string{"op", "outcome"})

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteCalls.WithLabelValues(op, outcome).Inc()
}
