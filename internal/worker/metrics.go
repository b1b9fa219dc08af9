package worker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	taskTotal    *prometheus.CounterVec
	droppedTotal *prometheus.CounterVec
	taskLatency  *prometheus.HistogramVec
	queueDepth   prometheus.Gauge
	paymentPolls *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		taskTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "side_effects",
			Name:      "total",
			Help:      "Side-effect task outcomes after all attempts.",
		}, []string{"task", "result"}),
		droppedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "side_effects",
			Name:      "dropped_total",
			Help:      "Side-effect tasks rejected because the queue was full or closed.",
		}, []string{"task"}),
		taskLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leatherdesk",
			Subsystem: "side_effects",
			Name:      "latency_seconds",
			Help:      "Time from first attempt to final outcome of a side-effect task.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"task", "result"}),
		queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "leatherdesk",
			Subsystem: "side_effects",
			Name:      "queue_depth",
			Help:      "Tasks waiting in the side-effect queue.",
		}),
		paymentPolls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leatherdesk",
			Subsystem: "payments",
			Name:      "polls_total",
			Help:      "Payment provider lookups by outcome.",
		}, []string{"result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
