package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
)

// LessonRepository интерфейс для работы с уроками
type LessonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lesson, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Lesson, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error)
	Create(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error)
	Update(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

// InMemoryLessonRepository реализация репозитория уроков в памяти
type InMemoryLessonRepository struct {
	lessons map[uuid.UUID]domain.Lesson
	mutex   sync.RWMutex
	log     *logger.Logger
}

// NewInMemoryLessonRepository создает новый репозиторий уроков в памяти
func NewInMemoryLessonRepository(log *logger.Logger) *InMemoryLessonRepository {
	return &InMemoryLessonRepository{
		lessons: make(map[uuid.UUID]domain.Lesson),
		log:     log,
	}
}

// GetByID возвращает урок по ID
func (r *InMemoryLessonRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lesson, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	lesson, exists := r.lessons[id]
	if !exists {
		return domain.Lesson{}, ErrNotFound
	}

	return lesson, nil
}

// GetByOwner возвращает уроки владельца, отсортированные по названию
func (r *InMemoryLessonRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Lesson, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var lessons []domain.Lesson
	for _, lesson := range r.lessons {
		if lesson.OwnerID == ownerID {
			lessons = append(lessons, lesson)
		}
	}

	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Name < lessons[j].Name
	})

	return lessons, nil
}

// GetByCourse возвращает уроки курса, отсортированные по названию
func (r *InMemoryLessonRepository) GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var lessons []domain.Lesson
	for _, lesson := range r.lessons {
		if lesson.CourseID == courseID {
			lessons = append(lessons, lesson)
		}
	}

	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Name < lessons[j].Name
	})

	return lessons, nil
}

// Create создает новый урок
func (r *InMemoryLessonRepository) Create(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lessons[lesson.ID] = lesson

	return lesson, nil
}

// Update обновляет существующий урок
func (r *InMemoryLessonRepository) Update(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.lessons[lesson.ID]; !exists {
		return domain.Lesson{}, ErrNotFound
	}

	r.lessons[lesson.ID] = lesson

	return lesson, nil
}

// Delete удаляет урок
func (r *InMemoryLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.lessons[id]; !exists {
		return ErrNotFound
	}

	delete(r.lessons, id)
	return nil
}

// DeleteByCourse удаляет все уроки курса
func (r *InMemoryLessonRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, lesson := range r.lessons {
		if lesson.CourseID == courseID {
			delete(r.lessons, id)
		}
	}
	return nil
}

// DeleteByOwner удаляет все уроки владельца
func (r *InMemoryLessonRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, lesson := range r.lessons {
		if lesson.OwnerID == ownerID {
			delete(r.lessons, id)
		}
	}
	return nil
}
