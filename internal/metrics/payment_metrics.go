package metrics

import (
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics интерфейс для метрик платежей
type PaymentMetrics interface {
	IncPaymentCreated(method string)
	IncPaymentStatus(status string)
	ObservePaymentAmount(amount float64)
}

type paymentMetrics struct {
	log             *logger.Logger
	paymentsCreated *prometheus.CounterVec
	paymentsStatus  *prometheus.CounterVec
	paymentsAmount  prometheus.Histogram
}

// NewPaymentMetrics создает новые метрики платежей
func NewPaymentMetrics(registry *prometheus.Registry, log *logger.Logger) PaymentMetrics {
	paymentsCreated := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "The total number of created payments",
		},
		[]string{"method"},
	)

	paymentsStatus := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_status_total",
			Help: "The total number of payment status transitions",
		},
		[]string{"status"},
	)

	paymentsAmount := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payments_amount",
			Help:    "Payment amounts distribution",
			Buckets: prometheus.ExponentialBuckets(10, 10, 5), // 10, 100, 1000, 10000, 100000
		},
	)

	return &paymentMetrics{
		log:             log,
		paymentsCreated: paymentsCreated,
		paymentsStatus:  paymentsStatus,
		paymentsAmount:  paymentsAmount,
	}
}

// IncPaymentCreated увеличивает счетчик созданных платежей
func (m *paymentMetrics) IncPaymentCreated(method string) {
	m.paymentsCreated.WithLabelValues(method).Inc()
}

// IncPaymentStatus увеличивает счетчик переходов статусов
func (m *paymentMetrics) IncPaymentStatus(status string) {
	m.paymentsStatus.WithLabelValues(status).Inc()
}

// ObservePaymentAmount записывает сумму платежа
func (m *paymentMetrics) ObservePaymentAmount(amount float64) {
	m.paymentsAmount.Observe(amount)
}
