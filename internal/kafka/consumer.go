package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TaskHandler обрабатывает одну задачу уведомления
type TaskHandler func(ctx context.Context, task domain.CourseUpdateTask) error

// TaskConsumer читает задачи уведомлений из Kafka в составе
// консьюмер-группы. Каждая задача обрабатывается не более maxAttempts
// раз, после чего фиксируется и отбрасывается: потеря письма при
// недоступном транспорте допустима, но не бесконечная передоставка.
type TaskConsumer struct {
	reader      *kafka.Reader
	maxAttempts int
	log         *logger.Logger
}

// NewTaskConsumer создает консьюмер задач уведомлений
func NewTaskConsumer(brokers []string, topic, groupID string, maxAttempts int, log *logger.Logger) *TaskConsumer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // явный коммит после обработки
	})

	return &TaskConsumer{
		reader:      reader,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Run обрабатывает задачи до отмены контекста
func (c *TaskConsumer) Run(ctx context.Context, handler TaskHandler) error {
	c.log.Infow("Notification consumer started")

	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.log.Info("Notification consumer stopped")
				return nil
			}
			c.log.Errorw("Failed to fetch message", "error", err)
			return err
		}

		c.handle(ctx, message, handler)

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Errorw("Failed to commit message", "error", err, "offset", message.Offset)
		}
	}
}

// handle разбирает и обрабатывает одно сообщение с ограниченным числом попыток
func (c *TaskConsumer) handle(ctx context.Context, message kafka.Message, handler TaskHandler) {
	var task domain.CourseUpdateTask
	if err := json.Unmarshal(message.Value, &task); err != nil {
		// Непарсибельное сообщение ретраить бессмысленно
		c.log.Errorw("Failed to unmarshal notification task, dropping", "error", err, "offset", message.Offset)
		return
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := handler(ctx, task); err == nil {
			return
		} else {
			c.log.Warnw("Notification task failed",
				"attempt", attempt,
				"maxAttempts", c.maxAttempts,
				"subscriber", task.SubscriberEmail,
				"error", err,
			)
		}

		if attempt < c.maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	c.log.Errorw("Notification task exhausted attempts, dropping",
		"subscriber", task.SubscriberEmail,
		"courseName", task.CourseName,
	)
}

// Close закрывает Kafka Reader
func (c *TaskConsumer) Close() error {
	return c.reader.Close()
}
