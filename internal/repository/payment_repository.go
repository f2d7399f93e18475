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

// PaymentRepository интерфейс для работы с платежами.
// UpdateStatusIfPending это единственная точка перевода платежа в конечный
// статус: условное обновление по текущему статусу pending, чтобы
// конкурирующие пути сверки не перезаписывали друг друга.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	GetByUser(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error)
	// GetBySession ищет платеж по ID сессии Stripe. Нулевой userID
	// означает поиск без привязки к пользователю (callback-и провайдера
	// не несут идентификатора вызывающего).
	GetBySession(ctx context.Context, sessionID string, userID uuid.UUID) (domain.Payment, error)
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	Update(ctx context.Context, payment domain.Payment) error
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (bool, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DetachCourse(ctx context.Context, courseID uuid.UUID) error
	DetachLesson(ctx context.Context, lessonID uuid.UUID) error
}

// InMemoryPaymentRepository реализация реестра платежей в памяти
type InMemoryPaymentRepository struct {
	payments map[uuid.UUID]domain.Payment
	mutex    sync.RWMutex
	log      *logger.Logger
}

// NewInMemoryPaymentRepository создает новый реестр платежей в памяти
func NewInMemoryPaymentRepository(log *logger.Logger) *InMemoryPaymentRepository {
	return &InMemoryPaymentRepository{
		payments: make(map[uuid.UUID]domain.Payment),
		log:      log,
	}
}

// GetByID возвращает платеж по ID
func (r *InMemoryPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	payment, exists := r.payments[id]
	if !exists {
		return domain.Payment{}, ErrNotFound
	}

	return payment, nil
}

// GetByUser возвращает платежи пользователя с фильтрацией и сортировкой
// по дате создания
func (r *InMemoryPaymentRepository) GetByUser(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var payments []domain.Payment
	for _, p := range r.payments {
		if p.UserID != userID {
			continue
		}
		if filter.CourseID != nil && (p.CourseID == nil || *p.CourseID != *filter.CourseID) {
			continue
		}
		if filter.LessonID != nil && (p.LessonID == nil || *p.LessonID != *filter.LessonID) {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		payments = append(payments, p)
	}

	sort.Slice(payments, func(i, j int) bool {
		if filter.OrderByDesc {
			return payments[i].CreatedAt.After(payments[j].CreatedAt)
		}
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})

	return payments, nil
}

// GetBySession возвращает платеж по ID сессии Stripe и пользователю
func (r *InMemoryPaymentRepository) GetBySession(ctx context.Context, sessionID string, userID uuid.UUID) (domain.Payment, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, p := range r.payments {
		if p.StripeSessionID == sessionID && (userID == uuid.Nil || p.UserID == userID) {
			return p, nil
		}
	}

	return domain.Payment{}, ErrNotFound
}

// Create создает новый платеж
func (r *InMemoryPaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	r.payments[payment.ID] = payment

	return payment, nil
}

// Update обновляет существующий платеж
func (r *InMemoryPaymentRepository) Update(ctx context.Context, payment domain.Payment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.payments[payment.ID]
	if !exists {
		return ErrNotFound
	}

	payment.CreatedAt = existing.CreatedAt
	r.payments[payment.ID] = payment

	return nil
}

// UpdateStatusIfPending переводит платеж в конечный статус, только если
// он все еще pending. Возвращает true, если переход состоялся.
func (r *InMemoryPaymentRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	payment, exists := r.payments[id]
	if !exists {
		return false, ErrNotFound
	}

	if !payment.Status.CanTransitionTo(status) {
		return false, nil
	}

	payment.Status = status
	r.payments[id] = payment

	return true, nil
}

// DeleteByUser удаляет все платежи пользователя
func (r *InMemoryPaymentRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, p := range r.payments {
		if p.UserID == userID {
			delete(r.payments, id)
		}
	}
	return nil
}

// DetachCourse обнуляет ссылку на удаленный курс
func (r *InMemoryPaymentRepository) DetachCourse(ctx context.Context, courseID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, p := range r.payments {
		if p.CourseID != nil && *p.CourseID == courseID {
			p.CourseID = nil
			r.payments[id] = p
		}
	}
	return nil
}

// DetachLesson обнуляет ссылку на удаленный урок
func (r *InMemoryPaymentRepository) DetachLesson(ctx context.Context, lessonID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, p := range r.payments {
		if p.LessonID != nil && *p.LessonID == lessonID {
			p.LessonID = nil
			r.payments[id] = p
		}
	}
	return nil
}
