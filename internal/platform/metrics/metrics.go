package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the request pipeline.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestRetries    prometheus.Counter
	TokenRefreshTotal *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests use a fresh
// registry per pipeline so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_requests_total",
			Help: "Total number of outbound API requests by outcome",
		}, []string{"outcome"}),
		RequestRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_request_retries_total",
			Help: "Total number of requests resubmitted after a token renewal",
		}),
		TokenRefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_token_refresh_total",
			Help: "Total number of access token renewal attempts by outcome",
		}, []string{"outcome"}),
	}
}

// Request outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeExpired = "expired"
)

func (m *Metrics) IncrementRequests(outcome string) {
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementRetries() {
	m.RequestRetries.Inc()
}

func (m *Metrics) IncrementTokenRefresh(outcome string) {
	m.TokenRefreshTotal.WithLabelValues(outcome).Inc()
}
