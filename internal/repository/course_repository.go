package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
)

// CourseRepository интерфейс для работы с курсами.
// Update обязан выставлять updated_at на стороне хранилища и возвращать
// перечитанное состояние: на этом построена проверка кулдауна уведомлений.
type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Course, error)
	Create(ctx context.Context, course domain.Course) (domain.Course, error)
	Update(ctx context.Context, course domain.Course) (domain.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

// InMemoryCourseRepository реализация репозитория курсов в памяти
type InMemoryCourseRepository struct {
	courses map[uuid.UUID]domain.Course
	mutex   sync.RWMutex
	log     *logger.Logger
}

// NewInMemoryCourseRepository создает новый репозиторий курсов в памяти
func NewInMemoryCourseRepository(log *logger.Logger) *InMemoryCourseRepository {
	return &InMemoryCourseRepository{
		courses: make(map[uuid.UUID]domain.Course),
		log:     log,
	}
}

// GetByID возвращает курс по ID
func (r *InMemoryCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	course, exists := r.courses[id]
	if !exists {
		return domain.Course{}, ErrNotFound
	}

	return course, nil
}

// GetByOwner возвращает курсы владельца, отсортированные по названию
func (r *InMemoryCourseRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var courses []domain.Course
	for _, course := range r.courses {
		if course.OwnerID == ownerID {
			courses = append(courses, course)
		}
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].Name < courses[j].Name
	})

	return courses, nil
}

// Create создает новый курс
func (r *InMemoryCourseRepository) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if course.UpdatedAt.IsZero() {
		course.UpdatedAt = time.Now()
	}

	r.courses[course.ID] = course

	return course, nil
}

// Update обновляет курс и выставляет свежий updated_at
func (r *InMemoryCourseRepository) Update(ctx context.Context, course domain.Course) (domain.Course, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[course.ID]; !exists {
		return domain.Course{}, ErrNotFound
	}

	course.UpdatedAt = time.Now()
	r.courses[course.ID] = course

	return course, nil
}

// Delete удаляет курс
func (r *InMemoryCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[id]; !exists {
		return ErrNotFound
	}

	delete(r.courses, id)
	return nil
}

// DeleteByOwner удаляет все курсы владельца
func (r *InMemoryCourseRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, course := range r.courses {
		if course.OwnerID == ownerID {
			delete(r.courses, id)
		}
	}
	return nil
}

// SetUpdatedAt напрямую переставляет updated_at курса, минуя Update.
// Нужен тестам для моделирования давности последнего обновления.
func (r *InMemoryCourseRepository) SetUpdatedAt(id uuid.UUID, t time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	course, exists := r.courses[id]
	if !exists {
		return
	}
	course.UpdatedAt = t
	r.courses[id] = course
}
