package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request classes recorded by RequestsTotal.
const (
	ClassThirdParty = "third_party"
	ClassAPI        = "api"
	ClassAuthRoute  = "auth_route"
)

// Refresh outcomes recorded by RefreshAttemptsTotal.
const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
)

// Redirect reasons recorded by RedirectsTotal.
const (
	RedirectSessionExpired = "session_expired"
	RedirectUnauthorized   = "unauthorized_page"
	RedirectLogout         = "logout"
)

type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RefreshAttemptsTotal *prometheus.CounterVec
	RefreshJoinedTotal   prometheus.Counter
	RetriesTotal         prometheus.Counter
	RedirectsTotal       *prometheus.CounterVec
}

// New registers the interceptor metrics with reg. A nil reg registers nothing, which keeps
// several clients in one process (or one test binary) from colliding.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authclient_requests_total",
			Help: "Total number of requests passed through the interceptor, by request class",
		}, []string{"class"}),
		RefreshAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authclient_refresh_attempts_total",
			Help: "Total number of token refresh network calls, by outcome",
		}, []string{"outcome"}),
		RefreshJoinedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_refresh_joined_total",
			Help: "Total number of callers that shared an in-flight refresh instead of starting one",
		}),
		RetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_retries_total",
			Help: "Total number of requests re-issued after a successful refresh",
		}),
		RedirectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authclient_login_redirects_total",
			Help: "Total number of navigations to the login location, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveRequest(class string) {
	m.RequestsTotal.WithLabelValues(class).Inc()
}

func (m *Metrics) ObserveRefresh(succeeded bool) {
	outcome := RefreshFailed
	if succeeded {
		outcome = RefreshSucceeded
	}
	m.RefreshAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRefreshJoined() {
	m.RefreshJoinedTotal.Inc()
}

func (m *Metrics) ObserveRetry() {
	m.RetriesTotal.Inc()
}

func (m *Metrics) ObserveRedirect(reason string) {
	m.RedirectsTotal.WithLabelValues(reason).Inc()
}
