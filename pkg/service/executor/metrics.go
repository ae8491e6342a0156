package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.keploy.io/apicase/pkg/models"
)

// Metrics counts case outcomes and times outbound requests.
type Metrics struct {
	cases   *prometheus.CounterVec
	latency prometheus.Histogram
}

// NewMetrics registers the executor collectors on reg. A nil reg keeps them
// unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apicase",
			Subsystem: "executor",
			Name:      "cases_total",
			Help:      "Executed cases by final status.",
		}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apicase",
			Subsystem: "executor",
			Name:      "request_duration_seconds",
			Help:      "Wall-clock time of requests sent to targets.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cases, m.latency)
	}
	return m
}

func (m *Metrics) observeCase(r *models.Report) {
	if m == nil {
		return
	}
	m.cases.WithLabelValues(string(r.Status)).Inc()
}

func (m *Metrics) observeRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}
