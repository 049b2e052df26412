package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Install flow and lookup counters, labelled by outcome so forged or failed
// callbacks are visible without reading logs.
var (
	InstallsInitiated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supportflow_installs_initiated_total",
		Help: "Number of OAuth install redirects issued.",
	})

	InstallCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supportflow_install_callbacks_total",
		Help: "Number of OAuth callbacks processed, by outcome.",
	}, []string{"outcome"})

	OrderLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supportflow_order_lookups_total",
		Help: "Number of order lookups processed, by outcome.",
	}, []string{"outcome"})
)
