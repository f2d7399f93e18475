package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/course-platform/config"
	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/kafka"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/internal/stripe"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
)

// Статусы оплаты сессии на стороне провайдера
const (
	sessionPaid   = "paid"
	sessionUnpaid = "unpaid"
)

// PaymentService реализует реестр платежей: ручные записи, оплату через
// Stripe и сверку статусов. Все три пути сверки (проверка статуса,
// success- и cancel-callback) проходят через один условный переход
// pending -> конечный статус, поэтому конечный статус выставляется
// ровно один раз.
type PaymentService struct {
	payments repository.PaymentRepository
	courses  repository.CourseRepository
	lessons  repository.LessonRepository
	gateway  stripe.Client
	events   kafka.PaymentProducer
	metrics  metrics.PaymentMetrics
	cfg      *config.Config
	log      *logger.Logger
}

// NewPaymentService создает новый сервис платежей
func NewPaymentService(
	payments repository.PaymentRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	gateway stripe.Client,
	events kafka.PaymentProducer,
	m metrics.PaymentMetrics,
	cfg *config.Config,
	log *logger.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		courses:  courses,
		lessons:  lessons,
		gateway:  gateway,
		events:   events,
		metrics:  m,
		cfg:      cfg,
		log:      log,
	}
}

// resolveTarget проверяет взаимную исключительность course_id/lesson_id
// и существование указанной сущности. Возвращает название и описание
// оплачиваемого материала.
func (s *PaymentService) resolveTarget(ctx context.Context, courseID, lessonID *uuid.UUID) (name, description string, err error) {
	if courseID != nil && lessonID != nil {
		return "", "", domain.NewValidationError("course_id",
			"укажите курс или урок, но не оба сразу")
	}

	switch {
	case courseID != nil:
		course, err := s.courses.GetByID(ctx, *courseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", "", domain.NewNotFoundError("course", courseID.String())
			}
			return "", "", fmt.Errorf("failed to get course: %w", err)
		}
		return course.Name, course.Description, nil
	case lessonID != nil:
		lesson, err := s.lessons.GetByID(ctx, *lessonID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", "", domain.NewNotFoundError("lesson", lessonID.String())
			}
			return "", "", fmt.Errorf("failed to get lesson: %w", err)
		}
		return lesson.Name, lesson.Description, nil
	}

	return "", "", nil
}

// CreateManual записывает платеж наличными или переводом. Такие платежи
// фиксируются сразу как оплаченные.
func (s *PaymentService) CreateManual(ctx context.Context, userID uuid.UUID, req domain.ManualPaymentRequest) (domain.Payment, error) {
	if req.Method != domain.PaymentMethodCash && req.Method != domain.PaymentMethodTransfer {
		return domain.Payment{}, domain.NewValidationError("method",
			"для ручной записи допустимы только cash и transfer")
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.NewValidationError("amount",
			"сумма должна быть положительной")
	}

	if _, _, err := s.resolveTarget(ctx, req.CourseID, req.LessonID); err != nil {
		return domain.Payment{}, err
	}

	payment := domain.Payment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: req.CourseID,
		LessonID: req.LessonID,
		Amount:   req.Amount,
		Method:   req.Method,
		Status:   domain.PaymentStatusPaid,
	}

	created, err := s.payments.Create(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	s.metrics.IncPaymentCreated(string(req.Method))
	s.metrics.ObservePaymentAmount(req.Amount)
	s.publishEvent(created, false)

	return created, nil
}

// List возвращает платежи пользователя с фильтрацией и сортировкой
func (s *PaymentService) List(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error) {
	return s.payments.GetByUser(ctx, userID, filter)
}

// Stats возвращает агрегаты по оплаченным платежам пользователя
func (s *PaymentService) Stats(ctx context.Context, userID uuid.UUID) (domain.PaymentStats, error) {
	payments, err := s.payments.GetByUser(ctx, userID, domain.PaymentFilter{})
	if err != nil {
		return domain.PaymentStats{}, fmt.Errorf("failed to list payments: %w", err)
	}

	stats := domain.PaymentStats{
		ByMethod: make(map[domain.PaymentMethod]float64),
	}
	for _, p := range payments {
		if p.Status != domain.PaymentStatusPaid {
			continue
		}
		stats.TotalAmount += p.Amount
		stats.ByMethod[p.Method] += p.Amount
	}

	return stats, nil
}

// InitiateStripe начинает оплату через Stripe: создает ожидающую запись
// платежа, затем продукт, цену и сессию оплаты у провайдера, сохраняет
// их идентификаторы и возвращает ссылку на страницу оплаты.
func (s *PaymentService) InitiateStripe(ctx context.Context, userID uuid.UUID, req domain.StripePaymentRequest) (domain.StripePaymentResponse, error) {
	if req.CourseID == nil && req.LessonID == nil {
		return domain.StripePaymentResponse{}, domain.NewValidationError("course_id",
			"укажите курс или урок для оплаты")
	}
	if req.Amount <= 0 {
		return domain.StripePaymentResponse{}, domain.NewValidationError("amount",
			"сумма должна быть положительной")
	}

	name, description, err := s.resolveTarget(ctx, req.CourseID, req.LessonID)
	if err != nil {
		return domain.StripePaymentResponse{}, err
	}

	payment := domain.Payment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: req.CourseID,
		LessonID: req.LessonID,
		Amount:   req.Amount,
		Method:   domain.PaymentMethodStripe,
		Status:   domain.PaymentStatusPending,
	}

	payment, err = s.payments.Create(ctx, payment)
	if err != nil {
		return domain.StripePaymentResponse{}, fmt.Errorf("failed to create payment: %w", err)
	}

	product, err := s.gateway.CreateProduct(ctx, name, description)
	if err != nil {
		return domain.StripePaymentResponse{}, err
	}

	price, err := s.gateway.CreatePrice(ctx, product.ID, req.Amount, s.cfg.Stripe.Currency)
	if err != nil {
		return domain.StripePaymentResponse{}, err
	}

	successURL := s.cfg.Server.BaseURL + "/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.cfg.Server.BaseURL + "/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}"

	session, err := s.gateway.CreateCheckoutSession(ctx, price.ID, successURL, cancelURL, map[string]string{
		"payment_id": payment.ID.String(),
		"user_id":    userID.String(),
	})
	if err != nil {
		return domain.StripePaymentResponse{}, err
	}

	payment.StripeProductID = product.ID
	payment.StripePriceID = price.ID
	payment.StripeSessionID = session.ID
	if err := s.payments.Update(ctx, payment); err != nil {
		return domain.StripePaymentResponse{}, fmt.Errorf("failed to persist stripe ids: %w", err)
	}

	s.metrics.IncPaymentCreated(string(domain.PaymentMethodStripe))
	s.metrics.ObservePaymentAmount(req.Amount)
	s.publishEvent(payment, false)

	s.log.Infow("Платеж через Stripe создан",
		"payment_id", payment.ID.String(),
		"session_id", session.ID)

	return domain.StripePaymentResponse{
		PaymentID:   payment.ID,
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

// CheckStatus возвращает живой статус сессии оплаты у провайдера.
// Локальная запись ищется по мере возможности и сверяется: paid
// переводит платеж в оплаченные, unpaid в неуспешные, любой другой
// статус запись не трогает. Отсутствие локальной записи не мешает
// вернуть живой статус.
func (s *PaymentService) CheckStatus(ctx context.Context, userID uuid.UUID, sessionID string) (stripe.SessionStatus, error) {
	status, err := s.gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return stripe.SessionStatus{}, err
	}

	payment, err := s.payments.GetBySession(ctx, sessionID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("Не удалось получить платеж по сессии",
				"session_id", sessionID, "error", err)
		}
		return status, nil
	}

	switch status.PaymentStatus {
	case sessionPaid:
		s.applyReconciliation(ctx, payment.ID, domain.PaymentStatusPaid)
	case sessionUnpaid:
		s.applyReconciliation(ctx, payment.ID, domain.PaymentStatusFailed)
	}

	return status, nil
}

// HandleSuccess обрабатывает возврат пользователя со страницы успешной
// оплаты. Перевод в статус выполняется условно; ошибки логируются, но
// вызывающему всегда возвращается человекочитаемое сообщение.
func (s *PaymentService) HandleSuccess(ctx context.Context, sessionID string) string {
	s.reconcileBySession(ctx, sessionID, domain.PaymentStatusPaid)
	return "Оплата прошла успешно. Доступ к материалам открыт."
}

// HandleCancel обрабатывает возврат со страницы отмены оплаты
func (s *PaymentService) HandleCancel(ctx context.Context, sessionID string) string {
	s.reconcileBySession(ctx, sessionID, domain.PaymentStatusCancelled)
	return "Оплата отменена. Вы можете попробовать снова в любой момент."
}

// reconcileBySession находит платеж по сессии и применяет условный
// переход. Отсутствие записи и ошибки хранилища только логируются.
func (s *PaymentService) reconcileBySession(ctx context.Context, sessionID string, status domain.PaymentStatus) {
	if sessionID == "" {
		return
	}

	payment, err := s.payments.GetBySession(ctx, sessionID, uuid.Nil)
	if err != nil {
		s.log.Warnw("Платеж по сессии не найден",
			"session_id", sessionID, "error", err)
		return
	}

	s.applyReconciliation(ctx, payment.ID, status)
}

// applyReconciliation выполняет условный переход pending -> status.
// Возвращает true, если переход состоялся в этом вызове.
func (s *PaymentService) applyReconciliation(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) bool {
	swapped, err := s.payments.UpdateStatusIfPending(ctx, paymentID, status)
	if err != nil {
		s.log.Errorw("Не удалось выполнить сверку платежа",
			"payment_id", paymentID.String(),
			"status", string(status),
			"error", err)
		return false
	}
	if !swapped {
		return false
	}

	s.metrics.IncPaymentStatus(string(status))

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err == nil {
		s.publishEvent(payment, true)
	}

	s.log.Infow("Статус платежа сверен",
		"payment_id", paymentID.String(),
		"status", string(status))
	return true
}

// publishEvent публикует событие жизненного цикла платежа в Kafka.
// Ошибки публикации не влияют на результат операции.
func (s *PaymentService) publishEvent(payment domain.Payment, updated bool) {
	var err error
	if updated {
		err = s.events.PublishPaymentUpdated(payment)
	} else {
		err = s.events.PublishPaymentCreated(payment)
	}
	if err != nil {
		s.log.Errorw("Не удалось опубликовать событие платежа",
			"payment_id", payment.ID.String(), "error", err)
	}
}
