package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/voltride/fleetsim/core/events"
)

// PromSink exposes simulation records as Prometheus metrics. It implements
// events.Reporter.
type PromSink struct {
	instructions *prometheus.CounterVec
	failures     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	distanceKM   prometheus.Counter
	energyKWh    prometheus.Counter
	unmatched    prometheus.Gauge
	meanSOC      prometheus.Gauge
}

// NewPromSink registers the simulation metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already-registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetsim_instructions_total",
			Help: "Dispatch instructions emitted, by kind",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetsim_instruction_failures_total",
			Help: "Dispatch instructions dropped during application, by kind",
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetsim_state_transitions_total",
			Help: "Vehicle state transitions, by target state",
		}, []string{"to"}),
		distanceKM: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_fleet_distance_km_total",
			Help: "Cumulative fleet distance traveled",
		}),
		energyKWh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetsim_energy_dispensed_kwh_total",
			Help: "Cumulative energy dispensed by chargers",
		}),
		unmatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleetsim_unmatched_requests",
			Help: "Requests with no assigned vehicle at the end of the tick",
		}),
		meanSOC: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleetsim_fleet_mean_soc",
			Help: "Mean fleet state of charge",
		}),
	}
	collectors := []prometheus.Collector{
		s.instructions, s.failures, s.transitions, s.distanceKM, s.energyKWh, s.unmatched, s.meanSOC,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	s.instructions = collectors[0].(*prometheus.CounterVec)
	s.failures = collectors[1].(*prometheus.CounterVec)
	s.transitions = collectors[2].(*prometheus.CounterVec)
	s.distanceKM = collectors[3].(prometheus.Counter)
	s.energyKWh = collectors[4].(prometheus.Counter)
	s.unmatched = collectors[5].(prometheus.Gauge)
	s.meanSOC = collectors[6].(prometheus.Gauge)
	return s, nil
}

// File records the metric dimensions of a simulation record.
func (s *PromSink) File(rec events.Record) {
	switch r := rec.(type) {
	case events.InstructionIssued:
		s.instructions.WithLabelValues(r.Instruction).Inc()
	case events.InstructionFailed:
		s.failures.WithLabelValues(r.Instruction).Inc()
	case events.StateTransition:
		s.transitions.WithLabelValues(r.To).Inc()
	case events.VehicleMoved:
		s.distanceKM.Add(r.DistanceKM)
	case events.ChargeSession:
		s.energyKWh.Add(r.EnergyKWh)
	case events.TickSummary:
		s.unmatched.Set(float64(r.Unmatched))
		s.meanSOC.Set(r.MeanSOC)
	}
}
