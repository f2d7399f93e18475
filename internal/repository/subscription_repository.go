package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
)

// SubscriptionRepository интерфейс для работы с подписками.
// Пара (user, course) уникальна: Create возвращает ErrDuplicate при
// повторной подписке.
type SubscriptionRepository interface {
	GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (domain.Subscription, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Subscription, error)
	Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// InMemorySubscriptionRepository реализация реестра подписок в памяти
type InMemorySubscriptionRepository struct {
	subs  map[uuid.UUID]domain.Subscription
	mutex sync.RWMutex
	log   *logger.Logger
}

// NewInMemorySubscriptionRepository создает новый реестр подписок в памяти
func NewInMemorySubscriptionRepository(log *logger.Logger) *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		subs: make(map[uuid.UUID]domain.Subscription),
		log:  log,
	}
}

// GetByUserAndCourse возвращает подписку пользователя на курс
func (r *InMemorySubscriptionRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, sub := range r.subs {
		if sub.UserID == userID && sub.CourseID == courseID {
			return sub, nil
		}
	}

	return domain.Subscription{}, ErrNotFound
}

// GetByCourse возвращает все подписки на курс
func (r *InMemorySubscriptionRepository) GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var subs []domain.Subscription
	for _, sub := range r.subs {
		if sub.CourseID == courseID {
			subs = append(subs, sub)
		}
	}

	return subs, nil
}

// Create создает подписку с контролем уникальности (user, course)
func (r *InMemorySubscriptionRepository) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.subs {
		if existing.UserID == sub.UserID && existing.CourseID == sub.CourseID {
			return domain.Subscription{}, ErrDuplicate
		}
	}

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	r.subs[sub.ID] = sub

	return sub, nil
}

// Delete удаляет подписку
func (r *InMemorySubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.subs[id]; !exists {
		return ErrNotFound
	}

	delete(r.subs, id)
	return nil
}

// DeleteByCourse удаляет все подписки на курс
func (r *InMemorySubscriptionRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, sub := range r.subs {
		if sub.CourseID == courseID {
			delete(r.subs, id)
		}
	}
	return nil
}

// DeleteByUser удаляет все подписки пользователя
func (r *InMemorySubscriptionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, sub := range r.subs {
		if sub.UserID == userID {
			delete(r.subs, id)
		}
	}
	return nil
}
