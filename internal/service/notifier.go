package service

import (
	"context"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/kafka"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/pkg/logger"
)

// NotificationCooldown минимальный интервал между рассылками по одному
// курсу. Уведомления уходят только если с прошлого обновления прошло
// строго больше этого времени.
const NotificationCooldown = 4 * time.Hour

// UpdateNotifier решает, пора ли рассылать уведомления об обновлении
// курса, и ставит задачи в очередь. Ошибки постановки логируются и не
// возвращаются вызывающему: судьба рассылки не влияет на результат
// обновления.
type UpdateNotifier struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	producer      kafka.TaskProducer
	metrics       metrics.NotificationMetrics
	log           *logger.Logger
	now           func() time.Time
	cooldown      time.Duration
}

func NewUpdateNotifier(
	subscriptions repository.SubscriptionRepository,
	users repository.UserRepository,
	producer kafka.TaskProducer,
	m metrics.NotificationMetrics,
	log *logger.Logger,
) *UpdateNotifier {
	return &UpdateNotifier{
		subscriptions: subscriptions,
		users:         users,
		producer:      producer,
		metrics:       m,
		log:           log,
		now:           time.Now,
		cooldown:      NotificationCooldown,
	}
}

// NotifyIfDue запускает рассылку по курсу, если с prevUpdatedAt прошло
// строго больше кулдауна. prevUpdatedAt хранит значение updated_at курса,
// снятое до записи обновления.
func (n *UpdateNotifier) NotifyIfDue(ctx context.Context, course domain.Course, prevUpdatedAt time.Time, materialTitle string) {
	elapsed := n.now().Sub(prevUpdatedAt)
	if elapsed <= n.cooldown {
		n.log.Debugw("Рассылка пропущена: кулдаун не истек",
			"course_id", course.ID.String(),
			"elapsed", elapsed.String())
		return
	}

	subs, err := n.subscriptions.GetByCourse(ctx, course.ID)
	if err != nil {
		n.log.Errorw("Не удалось получить подписки курса",
			"course_id", course.ID.String(), "error", err)
		return
	}

	enqueued := 0
	for _, sub := range subs {
		user, err := n.users.GetByID(ctx, sub.UserID)
		if err != nil {
			n.log.Errorw("Подписчик не найден, задача пропущена",
				"user_id", sub.UserID.String(), "error", err)
			continue
		}

		task := domain.CourseUpdateTask{
			CourseID:        course.ID,
			SubscriberEmail: user.Email,
			CourseName:      course.Name,
			MaterialTitle:   materialTitle,
			EnqueuedAt:      n.now(),
		}

		if err := n.producer.EnqueueCourseUpdate(ctx, task); err != nil {
			n.log.Errorw("Не удалось поставить задачу в очередь",
				"course_id", course.ID.String(),
				"subscriber", user.Email,
				"error", err)
			continue
		}

		n.metrics.IncTasksEnqueued()
		enqueued++
	}

	n.metrics.ObserveFanoutSize(enqueued)
	n.log.Infow("Рассылка об обновлении курса поставлена в очередь",
		"course_id", course.ID.String(),
		"subscribers", len(subs),
		"enqueued", enqueued)
}
