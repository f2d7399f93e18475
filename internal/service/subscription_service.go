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

// SubscriptionService реализует переключатель подписки на курс
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	courses       repository.CourseRepository
	log           *logger.Logger
}

// NewSubscriptionService создает новый сервис подписок
func NewSubscriptionService(
	subscriptions repository.SubscriptionRepository,
	courses repository.CourseRepository,
	log *logger.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		courses:       courses,
		log:           log,
	}
}

// Toggle переключает подписку пользователя на курс: создает при
// отсутствии, удаляет при наличии. Возвращает true, если подписка
// была создана.
func (s *SubscriptionService) Toggle(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("course", courseID.String())
		}
		return false, fmt.Errorf("failed to get course: %w", err)
	}

	existing, err := s.subscriptions.GetByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		if err := s.subscriptions.Delete(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("failed to delete subscription: %w", err)
		}
		s.log.Infow("Подписка удалена",
			"user_id", userID.String(), "course_id", courseID.String())
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to get subscription: %w", err)
	}

	sub := domain.Subscription{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
	}
	if _, err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, domain.NewDuplicateError("subscription", "course_id", courseID.String())
		}
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.log.Infow("Подписка создана",
		"user_id", userID.String(), "course_id", courseID.String())
	return true, nil
}
