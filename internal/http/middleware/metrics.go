package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_rate_limiter_requests_total",
			Help: "Requests let through by the rate limiters",
		},
		[]string{"limiter", "endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_rate_limiter_blocked_total",
			Help: "Requests blocked by the rate limiters",
		},
		[]string{"limiter", "endpoint"},
	)
	RLFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wheel_rate_limiter_memory_fallback_total",
			Help: "Hits counted in process memory because redis failed",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(RLFallback)
}
