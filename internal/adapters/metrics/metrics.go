// Package metrics holds the prometheus collectors of the resolution pipeline.
// Every Metrics value owns its registry, so independent pipelines never share counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace prefixes every collector name.
	Namespace = "compass"

	subsystemCache    = "cache"
	subsystemFetch    = "fetch"
	subsystemDedup    = "dedup"
	subsystemResolver = "resolver"
)

// Label names.
const (
	LabelState   = "state"
	LabelOutcome = "outcome"
	LabelResult  = "result"
)

// Fetch attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeRetryable = "retryable"
	OutcomeFatal     = "fatal"
)

// Resolution results.
const (
	ResultCached   = "cached"
	ResultFetched  = "fetched"
	ResultDegraded = "degraded"
	ResultFailed   = "failed"
)

// Metrics groups the collectors updated by the adapters.
type Metrics struct {
	registry *prometheus.Registry

	// CacheLookups counts cache lookups by state (miss, fresh, stale).
	CacheLookups *prometheus.CounterVec
	// CacheEvictions counts entries dropped by the size bound.
	CacheEvictions prometheus.Counter
	// FetchAttempts counts individual HTTP attempts by outcome.
	FetchAttempts *prometheus.CounterVec
	// DedupShared counts callers that joined an in-flight request.
	DedupShared prometheus.Counter
	// DedupInFlight tracks the number of in-flight deduplicated requests.
	DedupInFlight prometheus.Gauge
	// ResolveDuration observes component resolutions by result.
	ResolveDuration *prometheus.HistogramVec
}

// New creates a Metrics value with all collectors registered on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		registry: reg,
		CacheLookups: mustRegisterCounterVec(reg, subsystemCache, "lookups_total",
			"Number of cache lookups by state.", LabelState),
		CacheEvictions: mustRegisterCounter(reg, subsystemCache, "evictions_total",
			"Number of cache entries evicted by the size bound."),
		FetchAttempts: mustRegisterCounterVec(reg, subsystemFetch, "attempts_total",
			"Number of HTTP attempts by outcome.", LabelOutcome),
		DedupShared: mustRegisterCounter(reg, subsystemDedup, "shared_total",
			"Number of callers served by an already in-flight request."),
		DedupInFlight: mustRegisterGauge(reg, subsystemDedup, "in_flight",
			"Number of deduplicated requests currently in flight."),
		ResolveDuration: mustRegisterHistogramVec(reg, subsystemResolver, "duration_seconds",
			"Duration of component resolutions in seconds.",
			[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, LabelResult),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot flattens counter and gauge values into "name{label=value}" keys.
// Histograms are reported by their sample count.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			if labels := metric.GetLabel(); len(labels) > 0 {
				name += "{"
				for i, lp := range labels {
					if i > 0 {
						name += ","
					}
					name += lp.GetName() + "=" + lp.GetValue()
				}
				name += "}"
			}

			switch {
			case metric.GetCounter() != nil:
				out[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[name] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				out[name] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

func mustRegisterCounter(reg prometheus.Registerer, subsystem, name, help string) prometheus.Counter {
	m := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	reg.MustRegister(m)
	return m
}

func mustRegisterCounterVec(
	reg prometheus.Registerer, subsystem, name, help string, labelNames ...string,
) *prometheus.CounterVec {
	m := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labelNames)
	reg.MustRegister(m)
	return m
}

func mustRegisterGauge(reg prometheus.Registerer, subsystem, name, help string) prometheus.Gauge {
	m := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	reg.MustRegister(m)
	return m
}

func mustRegisterHistogramVec(
	reg prometheus.Registerer, subsystem, name, help string, buckets []float64, labelNames ...string,
) *prometheus.HistogramVec {
	m := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
	reg.MustRegister(m)
	return m
}
