// Package observability holds the process-wide Prometheus metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gymapp"

var (
	snapshotRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "records_total",
		Help:      "Snapshot records processed, by collection, direction and outcome.",
	}, []string{"collection", "direction", "outcome"})

	snapshotDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "duration_seconds",
		Help:      "Time spent importing or exporting one collection.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collection", "direction"})

	lastExportGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "last_export_timestamp_seconds",
		Help:      "Unix time of the last completed export of all collections.",
	})

	exercisesResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "exercises",
		Name:      "resolved_total",
		Help:      "Exercise references resolved while building workouts, by how they were resolved.",
	}, []string{"via"})

	workoutsBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "builder",
		Name:      "builds_total",
		Help:      "Workout and planned workout builds, by kind and outcome.",
	}, []string{"kind", "outcome"})
)

func init() {
	prometheus.MustRegister(snapshotRecords, snapshotDuration, lastExportGauge, exercisesResolved, workoutsBuilt)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordSnapshot(collection, direction, outcome string, n int) {
	if n <= 0 {
		return
	}
	snapshotRecords.WithLabelValues(collection, direction, outcome).Add(float64(n))
}

func ObserveSnapshot(collection, direction string, started time.Time) {
	snapshotDuration.WithLabelValues(collection, direction).Observe(time.Since(started).Seconds())
}

func MarkExported(at time.Time) {
	lastExportGauge.Set(float64(at.Unix()))
}

// RecordResolution counts how an exercise reference was resolved:
// "id", "name" or "created".
func RecordResolution(via string) {
	exercisesResolved.WithLabelValues(via).Inc()
}

func RecordBuild(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	workoutsBuilt.WithLabelValues(kind, outcome).Inc()
}
