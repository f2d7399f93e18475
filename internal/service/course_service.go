package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
)

// CourseService реализует операции над курсами, включая обнаружение
// обновлений и запуск рассылки уведомлений подписчикам.
type CourseService struct {
	courses       repository.CourseRepository
	lessons       repository.LessonRepository
	subscriptions repository.SubscriptionRepository
	payments      repository.PaymentRepository
	users         repository.UserRepository
	notifier      *UpdateNotifier
	log           *logger.Logger
}

// NewCourseService создает новый сервис курсов
func NewCourseService(
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	subscriptions repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	notifier *UpdateNotifier,
	log *logger.Logger,
) *CourseService {
	return &CourseService{
		courses:       courses,
		lessons:       lessons,
		subscriptions: subscriptions,
		payments:      payments,
		users:         users,
		notifier:      notifier,
		log:           log,
	}
}

// canModify проверяет право пользователя изменять чужую запись:
// разрешено владельцу и модератору.
func canModify(ctx context.Context, users repository.UserRepository, userID, ownerID uuid.UUID) error {
	if userID == ownerID {
		return nil
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}
	if user.IsModerator {
		return nil
	}

	return domain.ErrForbidden
}

// Create создает курс от имени владельца
func (s *CourseService) Create(ctx context.Context, ownerID uuid.UUID, req domain.CourseCreateRequest) (domain.Course, error) {
	course := domain.Course{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		OwnerID:     ownerID,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to create course: %w", err)
	}

	s.log.Infow("Курс создан", "course_id", created.ID.String(), "owner_id", ownerID.String())
	return created, nil
}

// Get возвращает курс. Доступ имеют владелец и модератор.
func (s *CourseService) Get(ctx context.Context, userID, courseID uuid.UUID) (domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Course{}, domain.NewNotFoundError("course", courseID.String())
		}
		return domain.Course{}, fmt.Errorf("failed to get course: %w", err)
	}

	if err := canModify(ctx, s.users, userID, course.OwnerID); err != nil {
		return domain.Course{}, err
	}

	return course, nil
}

// List возвращает курсы пользователя
func (s *CourseService) List(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	return s.courses.GetByOwner(ctx, userID)
}

// Update накладывает частичное обновление на курс и, если с прошлого
// обновления прошло строго больше четырех часов, ставит в очередь по
// одной задаче уведомления на каждого подписчика. Значение updated_at
// снимается до записи; хранилище обновляет его при каждой записи
// независимо от того, состоялась рассылка или нет.
func (s *CourseService) Update(ctx context.Context, userID, courseID uuid.UUID, req domain.CourseUpdateRequest) (domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Course{}, domain.NewNotFoundError("course", courseID.String())
		}
		return domain.Course{}, fmt.Errorf("failed to get course: %w", err)
	}

	if err := canModify(ctx, s.users, userID, course.OwnerID); err != nil {
		return domain.Course{}, err
	}

	prevUpdatedAt := course.UpdatedAt
	domain.ApplyCourseUpdate(&course, req)

	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to update course: %w", err)
	}

	s.notifier.NotifyIfDue(ctx, updated, prevUpdatedAt, domain.MaterialTitle(updated.Name))

	return updated, nil
}

// Delete удаляет курс вместе с уроками, подписками и отвязывает платежи.
// Удалять может только владелец.
func (s *CourseService) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError("course", courseID.String())
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if course.OwnerID != userID {
		return domain.ErrForbidden
	}

	lessons, err := s.lessons.GetByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to list course lessons: %w", err)
	}
	for _, lesson := range lessons {
		if err := s.payments.DetachLesson(ctx, lesson.ID); err != nil {
			return fmt.Errorf("failed to detach lesson payments: %w", err)
		}
	}

	if err := s.payments.DetachCourse(ctx, courseID); err != nil {
		return fmt.Errorf("failed to detach course payments: %w", err)
	}
	if err := s.subscriptions.DeleteByCourse(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course subscriptions: %w", err)
	}
	if err := s.lessons.DeleteByCourse(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course lessons: %w", err)
	}
	if err := s.courses.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.log.Infow("Курс удален", "course_id", courseID.String())
	return nil
}
