// Package metrics exposes the simulation kernel's Prometheus metrics: a
// self-hosted registry and HTTP handler rather than a query client, since
// the kernel has nothing external to query — it is the thing being
// observed.
package metrics

import (
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu  sync.RWMutex
	reg *prometheus.Registry

	machineTemperature *prometheus.GaugeVec
	machineVibration    *prometheus.GaugeVec
	queueDepth          *prometheus.GaugeVec
	eventsTotal         *prometheus.CounterVec
	jobsCompletedTotal  prometheus.Counter
	jobsFailedTotal     prometheus.Counter
	tickDuration        prometheus.Histogram
)

func init() {
	resetLocked()
}

// Reset clears and reinitializes all collectors. Used by tests, and by a
// long-running process that wants a fresh registry between runs.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resetLocked()
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// exposition format.
func Handler() http.Handler {
	mu.RLock()
	registry := reg
	mu.RUnlock()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// SetMachinePhysics records a machine's current temperature and vibration.
func SetMachinePhysics(machineID, class string, temperature, vibration float64) {
	id, cls := sanitizeLabel(machineID, "unknown"), sanitizeLabel(class, "unknown")

	mu.RLock()
	defer mu.RUnlock()
	if machineTemperature != nil {
		machineTemperature.WithLabelValues(id, cls).Set(temperature)
	}
	if machineVibration != nil {
		machineVibration.WithLabelValues(id, cls).Set(vibration)
	}
}

// SetQueueDepth records how many jobs are currently waiting in class's queue.
func SetQueueDepth(class string, depth int) {
	cls := sanitizeLabel(class, "unknown")

	mu.RLock()
	defer mu.RUnlock()
	if queueDepth != nil {
		queueDepth.WithLabelValues(cls).Set(float64(depth))
	}
}

// IncEvent increments the counter for one emitted job-shop event type.
func IncEvent(eventType string) {
	t := sanitizeLabel(eventType, "unknown")

	mu.RLock()
	defer mu.RUnlock()
	if eventsTotal != nil {
		eventsTotal.WithLabelValues(t).Inc()
	}
}

// IncJobCompleted increments the completed-jobs counter.
func IncJobCompleted() {
	mu.RLock()
	defer mu.RUnlock()
	if jobsCompletedTotal != nil {
		jobsCompletedTotal.Inc()
	}
}

// IncJobFailed increments the failed-step counter.
func IncJobFailed() {
	mu.RLock()
	defer mu.RUnlock()
	if jobsFailedTotal != nil {
		jobsFailedTotal.Inc()
	}
}

// ObserveTickDuration records how long one tick took to process, in seconds.
func ObserveTickDuration(seconds float64) {
	mu.RLock()
	defer mu.RUnlock()
	if tickDuration != nil {
		tickDuration.Observe(seconds)
	}
}

func resetLocked() {
	registry := prometheus.NewRegistry()

	temp := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "jobshop",
		Subsystem: "machine",
		Name:      "temperature_celsius",
		Help:      "Current simulated temperature of a machine.",
	}, []string{"machine_id", "class"})

	vib := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "jobshop",
		Subsystem: "machine",
		Name:      "vibration_mm_s",
		Help:      "Current simulated vibration RMS of a machine.",
	}, []string{"machine_id", "class"})

	depth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "jobshop",
		Name:      "queue_depth",
		Help:      "Number of jobs currently waiting in a class queue.",
	}, []string{"class"})

	evTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobshop",
		Name:      "events_total",
		Help:      "Total job-shop events emitted, by type.",
	}, []string{"type"})

	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobshop",
		Name:      "jobs_completed_total",
		Help:      "Total jobs that finished their entire route.",
	})

	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobshop",
		Name:      "jobs_failed_steps_total",
		Help:      "Total job steps lost to a machine failure.",
	})

	tick := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jobshop",
		Name:      "tick_duration_seconds",
		Help:      "Wall-clock time spent processing one simulation tick.",
		Buckets:   prometheus.DefBuckets,
	})

	registry.MustRegister(temp, vib, depth, evTotal, completed, failed, tick)

	reg = registry
	machineTemperature = temp
	machineVibration = vib
	queueDepth = depth
	eventsTotal = evTotal
	jobsCompletedTotal = completed
	jobsFailedTotal = failed
	tickDuration = tick
}

func sanitizeLabel(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	var b strings.Builder
	for _, r := range v {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ':' || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
