package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Training holds all Prometheus metrics for a training run.
type Training struct {
	// Collection metrics
	GroupsCollected  *prometheus.CounterVec
	GroupsDropped    *prometheus.CounterVec
	DegenerateGroups prometheus.Counter
	EpisodeReward    *prometheus.HistogramVec
	BatchTokens      prometheus.Histogram

	// Loss metrics
	Loss            prometheus.Gauge
	ClippedFraction prometheus.Gauge

	// Evaluation metrics
	EvalSuccess prometheus.Gauge
	EvalCell    *prometheus.GaugeVec
	EvalPasses  prometheus.Counter
}

// NewTraining registers the metrics with the default registerer.
func NewTraining() *Training {
	return NewTrainingWith(prometheus.DefaultRegisterer)
}

// NewTrainingWith registers the metrics with reg; tests pass a fresh
// registry to avoid duplicate registration.
func NewTrainingWith(reg prometheus.Registerer) *Training {
	factory := promauto.With(reg)
	return &Training{
		GroupsCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpo_groups_collected_total",
				Help: "Total number of complete groups collected",
			},
			[]string{"domain", "difficulty"},
		),
		GroupsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpo_groups_dropped_total",
				Help: "Total number of groups discarded as incomplete",
			},
			[]string{"domain", "difficulty"},
		),
		DegenerateGroups: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "grpo_degenerate_groups_total",
				Help: "Groups where every reward was identical (zero advantage)",
			},
		),
		EpisodeReward: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grpo_episode_reward",
				Help:    "Verifier rewards per episode",
				Buckets: []float64{-1, -0.5, 0, 0.25, 0.5, 0.75, 1},
			},
			[]string{"domain"},
		),
		BatchTokens: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "grpo_batch_tokens",
				Help:    "Token count per collected batch",
				Buckets: prometheus.ExponentialBuckets(256, 2, 12),
			},
		),
		Loss: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "grpo_loss",
				Help: "Clipped surrogate loss of the last batch",
			},
		),
		ClippedFraction: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "grpo_clipped_fraction",
				Help: "Fraction of episodes where the clipped branch was taken",
			},
		),
		EvalSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eval_success_rate",
				Help: "Overall hold-out success rate of the last evaluation pass",
			},
		),
		EvalCell: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eval_cell_success_rate",
				Help: "Hold-out success rate per (domain, difficulty) cell",
			},
			[]string{"domain", "difficulty"},
		),
		EvalPasses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eval_passes_total",
				Help: "Total number of evaluation passes",
			},
		),
	}
}
