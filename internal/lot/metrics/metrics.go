package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the lot transaction engine.
type Metrics struct {
	// Transitions by name and result ("applied", "invalid_state", "error")
	Transitions *prometheus.CounterVec

	// Lots submitted (created or re-submitted)
	Submissions prometheus.Counter

	// Grams lost to melting, summed across lots
	MeltLossGrams prometheus.Counter
}

// New creates a Metrics instance with all lot engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aurum_lot_transitions_total",
			Help: "Total lot state transitions by transition name and result",
		}, []string{"transition", "result"}),

		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aurum_lot_submissions_total",
			Help: "Total lot submissions including re-submissions",
		}),

		MeltLossGrams: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aurum_lot_melt_loss_grams_total",
			Help: "Cumulative refining weight loss in grams",
		}),
	}
}

// RecordTransition counts one transition attempt outcome.
func (m *Metrics) RecordTransition(transition, result string) {
	if m != nil {
		m.Transitions.WithLabelValues(transition, result).Inc()
	}
}

// RecordSubmission counts one lot submission.
func (m *Metrics) RecordSubmission() {
	if m != nil {
		m.Submissions.Inc()
	}
}

// RecordMeltLoss accumulates refining loss.
func (m *Metrics) RecordMeltLoss(grams float64) {
	if m != nil {
		m.MeltLossGrams.Add(grams)
	}
}
