package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// UploadsTotal counts files handled by the upload pipeline, labeled by result.
	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propertyagent",
		Subsystem: "uploads",
		Name:      "files_total",
		Help:      "Total number of selected files, labeled by result (uploaded, rejected, failed).",
	}, []string{"result"})

	// MatchRequestsTotal counts match requests by outcome.
	MatchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propertyagent",
		Subsystem: "matches",
		Name:      "requests_total",
		Help:      "Total number of match requests, labeled by result.",
	}, []string{"result"})

	MatchesReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propertyagent",
		Subsystem: "matches",
		Name:      "leads_returned",
		Help:      "Number of leads returned per successful match request.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	DispatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propertyagent",
		Subsystem: "whatsapp",
		Name:      "dispatches_total",
		Help:      "Total number of WhatsApp dispatches, labeled by whether tracking succeeded.",
	}, []string{"tracked"})

	// UpstreamDurationSeconds is the latency of calls to the workflow engine and storage.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propertyagent",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream HTTP calls, labeled by target, action and result.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"target", "action", "result"})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propertyagent",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of live agent sessions.",
	})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			UploadsTotal,
			MatchRequestsTotal,
			MatchesReturned,
			DispatchesTotal,
			UpstreamDurationSeconds,
			ActiveSessions,
		)
	})
}

func ObserveUpstream(target, action string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamDurationSeconds.WithLabelValues(target, action, result).Observe(time.Since(start).Seconds())
}
