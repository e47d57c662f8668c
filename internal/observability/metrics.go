package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	signupsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "roster",
		Name:      "signups_total",
		Help:      "Number of successful signups, labeled by activity.",
	}, []string{"activity"})

	unregistersCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "roster",
		Name:      "unregisters_total",
		Help:      "Number of successful unregistrations, labeled by activity.",
	}, []string{"activity"})

	rejectionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extracurricular_service",
		Subsystem: "roster",
		Name:      "rejections_total",
		Help:      "Number of rejected roster changes, labeled by operation and reason.",
	}, []string{"operation", "reason"})

	spotsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "extracurricular_service",
		Subsystem: "roster",
		Name:      "spots_available",
		Help:      "Remaining capacity per activity.",
	}, []string{"activity"})

	lastChangeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "extracurricular_service",
		Subsystem: "roster",
		Name:      "last_roster_change_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful roster change.",
	})
)

func init() {
	prometheus.MustRegister(signupsCounter, unregistersCounter, rejectionsCounter, spotsGauge, lastChangeGauge)
}

// RecordSignup updates counters and watermarks after a successful signup.
func RecordSignup(activity string, spotsLeft int, ts time.Time) {
	signupsCounter.WithLabelValues(activity).Inc()
	spotsGauge.WithLabelValues(activity).Set(float64(spotsLeft))
	if ts.IsZero() {
		return
	}
	lastChangeGauge.Set(float64(ts.Unix()))
}

// RecordUnregister updates counters and watermarks after a successful unregistration.
func RecordUnregister(activity string, spotsLeft int, ts time.Time) {
	unregistersCounter.WithLabelValues(activity).Inc()
	spotsGauge.WithLabelValues(activity).Set(float64(spotsLeft))
	if ts.IsZero() {
		return
	}
	lastChangeGauge.Set(float64(ts.Unix()))
}

// RecordRejection counts a rejected roster change.
func RecordRejection(operation, reason string) {
	rejectionsCounter.WithLabelValues(operation, reason).Inc()
}

// RecordSpots sets the remaining capacity gauge for an activity.
func RecordSpots(activity string, spotsLeft int) {
	spotsGauge.WithLabelValues(activity).Set(float64(spotsLeft))
}
