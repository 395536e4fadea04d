package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SessionsIssued   prometheus.Counter
	ExchangeFailures *prometheus.CounterVec
	ProbeResults     *prometheus.CounterVec
	GuardDecisions   *prometheus.CounterVec
	CarriersCleared  prometheus.Counter
	MealsSaved       prometheus.Counter
	MealsDeleted     prometheus.Counter
}

// New creates all metrics against the given registerer. Tests pass a fresh
// registry so parallel suites do not trip duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "dietcal_sessions_issued_total",
			Help: "Total number of session credentials successfully issued",
		}),
		ExchangeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dietcal_session_exchange_failures_total",
			Help: "Failed identity-credential exchanges by reason",
		}, []string{"reason"}),
		ProbeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dietcal_session_probe_results_total",
			Help: "Session verification outcomes by reason code",
		}, []string{"reason"}),
		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dietcal_route_guard_decisions_total",
			Help: "Route guard decisions by action (allow, redirect_login, redirect_home)",
		}, []string{"action"}),
		CarriersCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "dietcal_session_carriers_cleared_total",
			Help: "Session cookies proactively cleared after failed verification",
		}),
		MealsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "dietcal_meals_saved_total",
			Help: "Total number of meal records saved",
		}),
		MealsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dietcal_meals_deleted_total",
			Help: "Total number of meal records deleted",
		}),
	}
}
