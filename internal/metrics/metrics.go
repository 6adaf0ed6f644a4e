package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the arcade's Prometheus instruments. A nil *Metrics records nothing.
type Metrics struct {
	sessionsStarted prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	hits            *prometheus.CounterVec
	rewards         prometheus.Counter
	ticks           prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "whackarcade",
			Name:      "sessions_started_total",
			Help:      "Games started on any machine.",
		}),
		sessionsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whackarcade",
			Name:      "sessions_ended_total",
			Help:      "Games finished, by result.",
		}, []string{"result"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "whackarcade",
			Name:      "active_sessions",
			Help:      "Games currently running.",
		}),
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whackarcade",
			Name:      "hits_total",
			Help:      "Targets whacked, split by friendly.",
		}, []string{"friendly"}),
		rewards: f.NewCounter(prometheus.CounterOpts{
			Namespace: "whackarcade",
			Name:      "rewards_dispensed_total",
			Help:      "Reward payouts handed out.",
		}),
		ticks: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whackarcade",
			Name:      "tick_seconds",
			Help:      "Time spent advancing every machine once.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
	}
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
	m.activeSessions.Inc()
}

func (m *Metrics) SessionEnded(result string) {
	if m == nil {
		return
	}
	m.sessionsEnded.WithLabelValues(result).Inc()
	m.activeSessions.Dec()
}

func (m *Metrics) Hit(friendly bool) {
	if m == nil {
		return
	}
	label := "false"
	if friendly {
		label = "true"
	}
	m.hits.WithLabelValues(label).Inc()
}

func (m *Metrics) RewardDispensed() {
	if m == nil {
		return
	}
	m.rewards.Inc()
}

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.Observe(seconds)
}
