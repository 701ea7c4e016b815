// Package metrics counts schedule operations.
//
// The CLI uses Nop; the HTTP server uses a Prometheus-backed collector
// registered on its own registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons passed to RecordRejected.
const (
	ReasonInvalidConfiguration = "invalid_configuration"
	ReasonMalformedToken       = "malformed_token"
)

// Collector receives schedule events.
type Collector interface {
	RecordCreated(participants, slotsPerParticipant int, perRound bool)
	RecordReconstructed(slots int)
	RecordRejected(reason string)
}

// Nop discards everything.
type Nop struct{}

var _ Collector = Nop{}

func (Nop) RecordCreated(int, int, bool) {}
func (Nop) RecordReconstructed(int)      {}
func (Nop) RecordRejected(string)        {}

// Prometheus implements Collector with client_golang counters.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	created       *prometheus.CounterVec
	reconstructed prometheus.Counter
	rejected      *prometheus.CounterVec
	slots         prometheus.Histogram
}

var _ Collector = (*Prometheus)(nil)

// NewPrometheus creates a collector. A nil reg means
// prometheus.DefaultRegisterer; an empty namespace means "halftime".
// Metrics are registered lazily on first use.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "halftime"
	}
	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.created = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "schedule",
			Name:      "created_total",
			Help:      "Schedules drawn, by fairness mode.",
		}, []string{"mode"})
		p.reconstructed = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "schedule",
			Name:      "reconstructed_total",
			Help:      "Schedules rebuilt from a share token.",
		})
		p.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "schedule",
			Name:      "rejected_total",
			Help:      "Requests refused, by reason.",
		}, []string{"reason"})
		p.slots = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "schedule",
			Name:      "slots",
			Help:      "Slot count of drawn and rebuilt schedules.",
			Buckets:   []float64{2, 4, 8, 16, 32, 64, 128},
		})
		p.reg.MustRegister(p.created, p.reconstructed, p.rejected, p.slots)
	})
}

// RecordCreated counts a drawn schedule.
func (p *Prometheus) RecordCreated(participants, slotsPerParticipant int, perRound bool) {
	p.ensureRegistered()
	mode := "flat"
	if perRound {
		mode = "per_round"
	}
	p.created.WithLabelValues(mode).Inc()
	p.slots.Observe(float64(participants * slotsPerParticipant))
}

// RecordReconstructed counts a schedule rebuilt from a token.
func (p *Prometheus) RecordReconstructed(slots int) {
	p.ensureRegistered()
	p.reconstructed.Inc()
	p.slots.Observe(float64(slots))
}

// RecordRejected counts a refused request.
func (p *Prometheus) RecordRejected(reason string) {
	p.ensureRegistered()
	p.rejected.WithLabelValues(reason).Inc()
}
