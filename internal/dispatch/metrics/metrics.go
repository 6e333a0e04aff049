package metrics

import (
	"github.com/Arten331/observability/logger"
	"github.com/Arten331/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Service    metrics.PrometheusService
	collectors MetricCollectors
}

type MetricCollectors struct {
	notificationsDelivered *prometheus.CounterVec
	deliveriesSkipped      *prometheus.CounterVec
	deliveryFailures       prometheus.Counter
	persistenceFailures    prometheus.Counter
	missingTeacher         prometheus.Counter
}

func (m *Metrics) Collectors() MetricCollectors {
	return m.collectors
}

func (m *Metrics) Register() {
	notificationsDelivered := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered",
			Help: "Successful deliveries per fan-out scope",
		},
		[]string{"scope"},
	)

	deliveriesSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_skipped",
			Help: "Recipients filtered out by their interest set",
		},
		[]string{"scope"},
	)

	deliveryFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_delivery_failures",
			Help: "Subscriber update hooks that returned an error or panicked",
		},
	)

	persistenceFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_persistence_failures",
			Help: "Notification record writes that failed",
		},
	)

	missingTeacher := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_missing_teacher",
			Help: "Teacher-addressed notifications with no teacher mapping",
		},
	)

	m.collectors = MetricCollectors{
		notificationsDelivered: notificationsDelivered,
		deliveriesSkipped:      deliveriesSkipped,
		deliveryFailures:       deliveryFailures,
		persistenceFailures:    persistenceFailures,
		missingTeacher:         missingTeacher,
	}

	_ = m.Service.Register(notificationsDelivered)
	_ = m.Service.Register(deliveriesSkipped)
	_ = m.Service.Register(deliveryFailures)
	_ = m.Service.Register(persistenceFailures)
	_ = m.Service.Register(missingTeacher)
}

func (m *Metrics) StoreDelivered(scope string) {
	m.collectors.notificationsDelivered.WithLabelValues(scope).Inc()
}

func (m *Metrics) StoreSkipped(scope string) {
	m.collectors.deliveriesSkipped.WithLabelValues(scope).Inc()
}

func (m *Metrics) StoreDeliveryFailure() {
	m.collectors.deliveryFailures.Inc()
	logger.L().Debug("stored delivery failure")
}

func (m *Metrics) StorePersistenceFailure() {
	m.collectors.persistenceFailures.Inc()
	logger.L().Debug("stored persistence failure")
}

func (m *Metrics) StoreMissingTeacher() {
	m.collectors.missingTeacher.Inc()
}
