package feed

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "feed",
		Name:      "events_delivered_total",
		Help:      "Number of roster events successfully published to Kafka.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "feed",
		Name:      "events_failed_total",
		Help:      "Number of roster events that failed to publish.",
	})

	droppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "feed",
		Name:      "events_dropped_total",
		Help:      "Number of roster events dropped because the dispatch buffer was full.",
	})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "extracurricular_service",
		Subsystem: "feed",
		Name:      "batch_duration_seconds",
		Help:      "Time spent encoding and delivering roster event batches.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter, droppedCounter, batchDuration)
}
