package domain

import (
	"time"

	"github.com/google/uuid"
)

// CourseUpdateTask описывает одну задачу на отправку письма об обновлении
// курса. Явная типизированная структура вместо свободных пар ключ-значение:
// полезная нагрузка сериализуется в JSON для очереди задач.
type CourseUpdateTask struct {
	CourseID        uuid.UUID `json:"course_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	CourseName      string    `json:"course_name"`
	MaterialTitle   string    `json:"material_title"`
	EnqueuedAt      time.Time `json:"enqueued_at"`
}

// PaymentEvent представляет событие жизненного цикла платежа,
// публикуемое в Kafka
type PaymentEvent struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
