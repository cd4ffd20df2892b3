package metrics

import "github.com/prometheus/client_golang/prometheus"

// ServingMetrics records outcomes of serving attempts.
type ServingMetrics struct {
	served   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	alerts   *prometheus.CounterVec
}

// NewServingMetrics registers serving metrics on the provided registerer.
func NewServingMetrics(reg prometheus.Registerer) *ServingMetrics {
	if reg == nil {
		return &ServingMetrics{}
	}
	served := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "servings_total",
		Help: "Portions successfully served, labelled by meal.",
	}, []string{"meal"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "servings_rejected_total",
		Help: "Serving attempts rejected for insufficient stock.",
	}, []string{"meal"})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_created_total",
		Help: "Alerts created, labelled by kind.",
	}, []string{"kind"})
	reg.MustRegister(served, rejected, alerts)
	return &ServingMetrics{
		served:   served,
		rejected: rejected,
		alerts:   alerts,
	}
}

// AddServed records portions served for a meal.
func (s *ServingMetrics) AddServed(meal string, portions int) {
	if s == nil || s.served == nil {
		return
	}
	s.served.WithLabelValues(normalizeLabel(meal)).Add(float64(portions))
}

// IncRejected records a rejected serving attempt for a meal.
func (s *ServingMetrics) IncRejected(meal string) {
	if s == nil || s.rejected == nil {
		return
	}
	s.rejected.WithLabelValues(normalizeLabel(meal)).Inc()
}

// IncAlert records a created alert of the given kind.
func (s *ServingMetrics) IncAlert(kind string) {
	if s == nil || s.alerts == nil {
		return
	}
	s.alerts.WithLabelValues(normalizeLabel(kind)).Inc()
}
