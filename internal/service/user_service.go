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

// UserService реализует регистрацию и управление профилем.
// Удаление пользователя каскадно сносит его курсы, уроки, подписки
// и платежи.
type UserService struct {
	users         repository.UserRepository
	courses       repository.CourseRepository
	lessons       repository.LessonRepository
	subscriptions repository.SubscriptionRepository
	payments      repository.PaymentRepository
	log           *logger.Logger
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	subscriptions repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	log *logger.Logger,
) *UserService {
	return &UserService{
		users:         users,
		courses:       courses,
		lessons:       lessons,
		subscriptions: subscriptions,
		payments:      payments,
		log:           log,
	}
}

// Register регистрирует пользователя. Email уникален без учета регистра.
func (s *UserService) Register(ctx context.Context, req domain.UserCreateRequest) (domain.User, error) {
	user := domain.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Phone:     req.Phone,
		City:      req.City,
		AvatarURL: req.AvatarURL,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, domain.NewDuplicateError("user", "email", req.Email)
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Infow("Пользователь зарегистрирован",
		"user_id", created.ID.String(), "email", created.Email)
	return created, nil
}

// Get возвращает профиль пользователя
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, domain.NewNotFoundError("user", userID.String())
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Update накладывает частичное обновление на профиль
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req domain.UserUpdateRequest) (domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete удаляет пользователя со всем его содержимым: курсы с уроками
// и подписками, собственные уроки, подписки и платежи.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	courses, err := s.courses.GetByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user courses: %w", err)
	}
	for _, course := range courses {
		if err := s.subscriptions.DeleteByCourse(ctx, course.ID); err != nil {
			return fmt.Errorf("failed to delete course subscriptions: %w", err)
		}
		if err := s.payments.DetachCourse(ctx, course.ID); err != nil {
			return fmt.Errorf("failed to detach course payments: %w", err)
		}
	}

	lessons, err := s.lessons.GetByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user lessons: %w", err)
	}
	for _, lesson := range lessons {
		if err := s.payments.DetachLesson(ctx, lesson.ID); err != nil {
			return fmt.Errorf("failed to detach lesson payments: %w", err)
		}
	}

	if err := s.lessons.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user lessons: %w", err)
	}
	if err := s.courses.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user courses: %w", err)
	}
	if err := s.subscriptions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user subscriptions: %w", err)
	}
	if err := s.payments.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user payments: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Infow("Пользователь удален", "user_id", userID.String())
	return nil
}
