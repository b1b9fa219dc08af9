package usecase

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	collisions  *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		created: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "requests",
			Name:      "created_total",
			Help:      "Requests submitted, by kind.",
		}, []string{"kind"}),
		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "requests",
			Name:      "status_transitions_total",
			Help:      "Persisted status changes, by kind and target status.",
		}, []string{"kind", "status"}),
		collisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "requests",
			Name:      "number_conflicts_total",
			Help:      "Inserts rejected because the request number was already taken.",
		}, []string{"kind"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
