// Package metrics counts session slot operations and their outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crowdops"

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeAbsent  = "absent"
	OutcomeCorrupt = "corrupt"
	OutcomeFailed  = "failed"
)

// Recorder receives one observation per store or retrieve call.
type Recorder interface {
	ObserveStore(slot, outcome string)
	ObserveRetrieve(slot, outcome string)
}

type nopRecorder struct{}

// Nop returns a Recorder that drops observations.
func Nop() Recorder { return nopRecorder{} }

func (nopRecorder) ObserveStore(string, string)    {}
func (nopRecorder) ObserveRetrieve(string, string) {}

// Prometheus is a Recorder backed by Prometheus counters.
type Prometheus struct {
	stores    *prometheus.CounterVec
	retrieves *prometheus.CounterVec
}

// NewPrometheus creates the session counters and registers them with reg.
// Counters already registered on reg are reused.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	return &Prometheus{
		stores: registerCounterVec(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "store_total",
				Help:      "Session slot writes by slot and outcome.",
			},
			[]string{"slot", "outcome"},
		)),
		retrieves: registerCounterVec(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "retrieve_total",
				Help:      "Session slot reads by slot and outcome.",
			},
			[]string{"slot", "outcome"},
		)),
	}
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (p *Prometheus) ObserveStore(slot, outcome string) {
	p.stores.WithLabelValues(slot, outcome).Inc()
}

func (p *Prometheus) ObserveRetrieve(slot, outcome string) {
	p.retrieves.WithLabelValues(slot, outcome).Inc()
}
