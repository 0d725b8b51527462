package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "admin_session"

// Refresh outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeShared  = "shared"  // result handed to a caller of a flight with several waiters
	OutcomeSkipped = "skipped" // tokens had already been rotated; no exchange
	OutcomeFailure = "failure"
)

// Metrics counts refresh flights, network exchanges and teardowns.
type Metrics struct {
	Refreshes *prometheus.CounterVec
	Exchanges prometheus.Counter
	Teardowns prometheus.Counter
}

// NewMetrics creates the session counters and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_requests_total",
			Help:      "Refresh requests by outcome, one per caller.",
		}, []string{"outcome"}),
		Exchanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_exchanges_total",
			Help:      "Refresh exchanges sent to the auth API.",
		}),
		Teardowns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "teardowns_total",
			Help:      "Sessions ended because a refresh failed.",
		}),
	}
}
