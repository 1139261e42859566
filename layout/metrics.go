package layout

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts layout cache activity.
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Errors      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bitfield_layout_cache_hits_total",
			Help: "Total number of layouts served from the compiler cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bitfield_layout_cache_misses_total",
			Help: "Total number of layouts compiled",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bitfield_layout_errors_total",
			Help: "Total number of width sequences rejected",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheHits,
			m.CacheMisses,
			m.Errors,
		)
	}

	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) fail() {
	if m != nil {
		m.Errors.Inc()
	}
}
