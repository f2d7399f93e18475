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

// LessonService реализует операции над уроками. Обновление урока
// считается обновлением владеющего курса: кулдаун рассылки считается
// по updated_at курса, а сам курс перечитывается после записи.
type LessonService struct {
	lessons  repository.LessonRepository
	courses  repository.CourseRepository
	payments repository.PaymentRepository
	users    repository.UserRepository
	notifier *UpdateNotifier
	log      *logger.Logger
}

// NewLessonService создает новый сервис уроков
func NewLessonService(
	lessons repository.LessonRepository,
	courses repository.CourseRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	notifier *UpdateNotifier,
	log *logger.Logger,
) *LessonService {
	return &LessonService{
		lessons:  lessons,
		courses:  courses,
		payments: payments,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Create создает урок в курсе. Создавать уроки может только владелец
// курса; ссылка на видео проходит проверку на YouTube-домен.
func (s *LessonService) Create(ctx context.Context, ownerID uuid.UUID, req domain.LessonCreateRequest) (domain.Lesson, error) {
	if err := domain.ValidateVideoURL(req.VideoURL); err != nil {
		return domain.Lesson{}, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lesson{}, domain.NewNotFoundError("course", req.CourseID.String())
		}
		return domain.Lesson{}, fmt.Errorf("failed to get course: %w", err)
	}
	if course.OwnerID != ownerID {
		return domain.Lesson{}, domain.ErrForbidden
	}

	lesson := domain.Lesson{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		VideoURL:    req.VideoURL,
		CourseID:    req.CourseID,
		OwnerID:     ownerID,
	}

	created, err := s.lessons.Create(ctx, lesson)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.log.Infow("Урок создан",
		"lesson_id", created.ID.String(),
		"course_id", req.CourseID.String())
	return created, nil
}

// Get возвращает урок. Доступ имеют владелец и модератор.
func (s *LessonService) Get(ctx context.Context, userID, lessonID uuid.UUID) (domain.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lesson{}, domain.NewNotFoundError("lesson", lessonID.String())
		}
		return domain.Lesson{}, fmt.Errorf("failed to get lesson: %w", err)
	}

	if err := canModify(ctx, s.users, userID, lesson.OwnerID); err != nil {
		return domain.Lesson{}, err
	}

	return lesson, nil
}

// List возвращает уроки пользователя
func (s *LessonService) List(ctx context.Context, userID uuid.UUID) ([]domain.Lesson, error) {
	return s.lessons.GetByOwner(ctx, userID)
}

// Update накладывает частичное обновление на урок и прогоняет владеющий
// курс через детектор обновлений: updated_at курса снимается до записи,
// курс перезаписывается (хранилище освежает метку), и при истекшем
// кулдауне подписчикам курса уходят задачи с названием урока в роли
// материала.
func (s *LessonService) Update(ctx context.Context, userID, lessonID uuid.UUID, req domain.LessonUpdateRequest) (domain.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lesson{}, domain.NewNotFoundError("lesson", lessonID.String())
		}
		return domain.Lesson{}, fmt.Errorf("failed to get lesson: %w", err)
	}

	if err := canModify(ctx, s.users, userID, lesson.OwnerID); err != nil {
		return domain.Lesson{}, err
	}

	if req.VideoURL != nil {
		if err := domain.ValidateVideoURL(*req.VideoURL); err != nil {
			return domain.Lesson{}, err
		}
	}

	course, err := s.courses.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to get owning course: %w", err)
	}
	prevUpdatedAt := course.UpdatedAt

	domain.ApplyLessonUpdate(&lesson, req)

	updated, err := s.lessons.Update(ctx, lesson)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to update lesson: %w", err)
	}

	refreshed, err := s.courses.Update(ctx, course)
	if err != nil {
		s.log.Errorw("Не удалось освежить updated_at курса",
			"course_id", course.ID.String(), "error", err)
		return updated, nil
	}

	s.notifier.NotifyIfDue(ctx, refreshed, prevUpdatedAt, domain.MaterialTitle(updated.Name))

	return updated, nil
}

// Delete удаляет урок и отвязывает ссылающиеся на него платежи.
// Удалять может только владелец.
func (s *LessonService) Delete(ctx context.Context, userID, lessonID uuid.UUID) error {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError("lesson", lessonID.String())
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}

	if lesson.OwnerID != userID {
		return domain.ErrForbidden
	}

	if err := s.payments.DetachLesson(ctx, lessonID); err != nil {
		return fmt.Errorf("failed to detach lesson payments: %w", err)
	}
	if err := s.lessons.Delete(ctx, lessonID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	s.log.Infow("Урок удален", "lesson_id", lessonID.String())
	return nil
}
