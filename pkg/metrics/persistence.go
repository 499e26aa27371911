package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PersistenceMetrics records the outcome of fire-and-forget mirror writes to
// the remote backend, labeled by entity (settings, product, admin_user,
// analytics, content).
type PersistenceMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPersistenceMetrics registers the persistence metrics on the provided registerer.
func NewPersistenceMetrics(reg prometheus.Registerer) *PersistenceMetrics {
	if reg == nil {
		return &PersistenceMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "persist_duration_seconds",
		Help:    "Duration of backend mirror writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_success",
		Help: "Successful backend mirror writes.",
	}, []string{"entity"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_failure",
		Help: "Failed backend mirror writes.",
	}, []string{"entity"})
	reg.MustRegister(duration, success, failure)
	return &PersistenceMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of a mirror write for the entity.
func (p *PersistenceMetrics) ObserveDuration(entity string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(entity)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the entity.
func (p *PersistenceMetrics) IncSuccess(entity string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncFailure increments the failure counter for the entity.
func (p *PersistenceMetrics) IncFailure(entity string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(entity)).Inc()
}

func normalizeLabel(entity string) string {
	if entity == "" {
		return "unknown"
	}
	return entity
}
