package metrics

import (
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NotificationMetrics интерфейс для метрик уведомлений
type NotificationMetrics interface {
	IncTasksEnqueued()
	IncTasksProcessed(result string)
	ObserveFanoutSize(count int)
}

type notificationMetrics struct {
	log            *logger.Logger
	tasksEnqueued  prometheus.Counter
	tasksProcessed *prometheus.CounterVec
	fanoutSize     prometheus.Histogram
}

// NewNotificationMetrics создает новые метрики уведомлений
func NewNotificationMetrics(registry *prometheus.Registry, log *logger.Logger) NotificationMetrics {
	tasksEnqueued := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "notification_tasks_enqueued_total",
			Help: "The total number of enqueued notification tasks",
		},
	)

	tasksProcessed := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_tasks_processed_total",
			Help: "The total number of processed notification tasks",
		},
		[]string{"result"},
	)

	fanoutSize := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_fanout_size",
			Help:    "Number of subscribers notified per course update",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6), // 1, 4, 16, 64, 256, 1024
		},
	)

	return &notificationMetrics{
		log:            log,
		tasksEnqueued:  tasksEnqueued,
		tasksProcessed: tasksProcessed,
		fanoutSize:     fanoutSize,
	}
}

// IncTasksEnqueued увеличивает счетчик поставленных в очередь задач
func (m *notificationMetrics) IncTasksEnqueued() {
	m.tasksEnqueued.Inc()
}

// IncTasksProcessed увеличивает счетчик обработанных задач
func (m *notificationMetrics) IncTasksProcessed(result string) {
	m.tasksProcessed.WithLabelValues(result).Inc()
}

// ObserveFanoutSize записывает размер рассылки
func (m *notificationMetrics) ObserveFanoutSize(count int) {
	m.fanoutSize.Observe(float64(count))
}
