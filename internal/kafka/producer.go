package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TaskProducer определяет интерфейс постановки задач уведомлений в очередь.
// Доставка at-least-once, без ключа дедупликации: повторная доставка
// означает повторное письмо.
type TaskProducer interface {
	// EnqueueCourseUpdate отправляет задачу на уведомление одного подписчика.
	EnqueueCourseUpdate(ctx context.Context, task domain.CourseUpdateTask) error
	// Close закрывает соединение продюсера.
	Close() error
}

// taskProducer реализует TaskProducer через segmentio/kafka-go
type taskProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewTaskProducer создает и настраивает продюсер задач уведомлений
func NewTaskProducer(brokers []string, topic string, log *logger.Logger) (TaskProducer, error) {
	if len(brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka task producer initialized", "brokers", brokers, "topic", topic)

	return &taskProducer{
		writer: writer,
		log:    log,
	}, nil
}

// EnqueueCourseUpdate сериализует задачу в JSON и отправляет в топик.
// Ключ сообщения берется из ID курса: задачи одного курса попадают в одну партицию.
func (p *taskProducer) EnqueueCourseUpdate(ctx context.Context, task domain.CourseUpdateTask) error {
	messageValue, err := json.Marshal(task)
	if err != nil {
		p.log.Errorw("Failed to marshal notification task", "error", err, "courseID", task.CourseID)
		return fmt.Errorf("kafka: failed to marshal task: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(task.CourseID.String()),
		Value: messageValue,
		Time:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			p.log.Errorw("Kafka write timeout exceeded", "error", err, "courseID", task.CourseID)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		p.log.Errorw("Failed to write notification task to Kafka", "error", err, "courseID", task.CourseID)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	p.log.Debugw("Notification task enqueued", "courseID", task.CourseID, "subscriber", task.SubscriberEmail)
	return nil
}

// Close закрывает Kafka Writer
func (p *taskProducer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	return nil
}
