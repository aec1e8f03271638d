package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Spins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_spins_total",
			Help: "Total resolved spins by outcome kind",
		},
		[]string{"kind"},
	)
	SpinRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_spin_rejected_total",
			Help: "Spin requests ignored because the gate was closed or a spin was in flight",
		},
		[]string{"reason"},
	)
	GateOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_gate_opened_total",
			Help: "Times the spin gate was opened",
		},
		[]string{"source"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wheel_sessions_active",
			Help: "Wheel sessions currently open",
		},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_store_errors_total",
			Help: "Recent winners store failures absorbed by the engine",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(Spins)
	prometheus.MustRegister(SpinRejected)
	prometheus.MustRegister(GateOpened)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(StoreErrors)
}
