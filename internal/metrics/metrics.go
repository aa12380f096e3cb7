// Package metrics exposes Prometheus collectors for the HTTP API and reward events.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chorechart/internal/models"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chorechart",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chorechart",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chorechart",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	choreEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chorechart",
			Subsystem: "rewards",
			Name:      "chore_events_total",
			Help:      "Chores checked off or unchecked.",
		},
		[]string{"event"},
	)

	balloonsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chorechart",
			Subsystem: "rewards",
			Name:      "balloons_awarded_total",
			Help:      "Balloons awarded for completed chores.",
		},
	)

	starsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chorechart",
			Subsystem: "rewards",
			Name:      "stars_awarded_total",
			Help:      "Stars added to kids' ledgers.",
		},
		[]string{"type"},
	)

	starsRevoked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chorechart",
			Subsystem: "rewards",
			Name:      "stars_revoked_total",
			Help:      "Stars removed from kids' ledgers.",
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		choreEvents,
		balloonsAwarded,
		starsAwarded,
		starsRevoked,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// Recorder counts reward events. The zero value is ready to use.
type Recorder struct{}

// ChoreCompleted counts a checked-off chore and its balloon
func (Recorder) ChoreCompleted(balloons int) {
	choreEvents.WithLabelValues("completed").Inc()
	balloonsAwarded.Add(float64(balloons))
}

// ChoreUnchecked counts an unchecked chore
func (Recorder) ChoreUnchecked() {
	choreEvents.WithLabelValues("unchecked").Inc()
}

// StarsAwarded counts stars added to a ledger
func (Recorder) StarsAwarded(starType models.StarType, n int) {
	if n > 0 {
		starsAwarded.WithLabelValues(string(starType)).Add(float64(n))
	}
}

// StarsRevoked counts stars removed from a ledger
func (Recorder) StarsRevoked(starType models.StarType, n int) {
	if n > 0 {
		starsRevoked.WithLabelValues(string(starType)).Add(float64(n))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var numericSegment = regexp.MustCompile(`^[0-9]+$`)

// canonicalPath replaces numeric ids so label cardinality stays bounded.
func canonicalPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if numericSegment.MatchString(part) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
