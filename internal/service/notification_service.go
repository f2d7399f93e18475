package service

import (
	"context"
	"fmt"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/kafka"
	"github.com/Dhoini/course-platform/internal/mail"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/pkg/logger"
)

// Результаты обработки задачи уведомления
const (
	resultSent    = "sent"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

// NotificationService обрабатывает задачи рассылки из очереди: одна
// задача, одно письмо. Отсутствие учетных данных SMTP останавливает
// отправку без ошибки; отказ транспорта возвращается потребителю,
// который ограниченно повторяет доставку.
type NotificationService struct {
	sender  mail.Sender
	metrics metrics.NotificationMetrics
	log     *logger.Logger
}

// NewNotificationService создает новый сервис уведомлений
func NewNotificationService(sender mail.Sender, m metrics.NotificationMetrics, log *logger.Logger) *NotificationService {
	return &NotificationService{
		sender:  sender,
		metrics: m,
		log:     log,
	}
}

// Process обрабатывает одну задачу уведомления и возвращает строковый
// результат обработки. Ошибка не nil только при отказе транспорта.
func (s *NotificationService) Process(ctx context.Context, task domain.CourseUpdateTask) (string, error) {
	if !s.sender.Configured() {
		s.metrics.IncTasksProcessed(resultSkipped)
		s.log.Warnw("SMTP не настроен, письмо не отправлено",
			"course_id", task.CourseID.String(),
			"subscriber", task.SubscriberEmail)
		return "SMTP не настроен, отправка пропущена", nil
	}

	subject := fmt.Sprintf("Обновление в курсе %s", task.CourseName)
	body := fmt.Sprintf("В курсе \"%s\" появился новый материал: %s",
		task.CourseName, task.MaterialTitle)

	if err := s.sender.Send(task.SubscriberEmail, subject, body); err != nil {
		s.metrics.IncTasksProcessed(resultFailed)
		s.log.Errorw("Не удалось отправить письмо",
			"course_id", task.CourseID.String(),
			"subscriber", task.SubscriberEmail,
			"error", err)
		return "отправка не удалась", err
	}

	s.metrics.IncTasksProcessed(resultSent)
	s.log.Infow("Письмо об обновлении курса отправлено",
		"course_id", task.CourseID.String(),
		"subscriber", task.SubscriberEmail)
	return "отправлено " + task.SubscriberEmail, nil
}

// Handler адаптирует сервис к сигнатуре обработчика очереди
func (s *NotificationService) Handler() kafka.TaskHandler {
	return func(ctx context.Context, task domain.CourseUpdateTask) error {
		_, err := s.Process(ctx, task)
		return err
	}
}
