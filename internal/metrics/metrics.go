package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the authentication gate. Registered on the default
// prometheus registry at init; scraped via the management endpoint.
var (
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet_core",
		Subsystem: "auth",
		Name:      "attempts_total",
		Help:      "Authentication attempts by credential type.",
	}, []string{"type"})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet_core",
		Subsystem: "auth",
		Name:      "failures_total",
		Help:      "Failed authentication attempts by credential type.",
	}, []string{"type"})

	Lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wallet_core",
		Subsystem: "auth",
		Name:      "lockouts_total",
		Help:      "Times the failed-attempt threshold triggered a lockout.",
	})
)
