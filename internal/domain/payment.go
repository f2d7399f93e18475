package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodStripe   PaymentMethod = "stripe"
)

// Payment представляет собой запись о платеже.
// Ссылается не более чем на одну из сущностей {курс, урок}; оба поля
// пустые, это допустимая ручная/административная запись. Stripe-поля
// заполняются только для платежей через провайдера.
type Payment struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	CourseID        *uuid.UUID    `json:"course_id,omitempty"`
	LessonID        *uuid.UUID    `json:"lesson_id,omitempty"`
	Amount          float64       `json:"amount"`
	Method          PaymentMethod `json:"method"`
	Status          PaymentStatus `json:"status"`
	StripeProductID string        `json:"stripe_product_id,omitempty"`
	StripePriceID   string        `json:"stripe_price_id,omitempty"`
	StripeSessionID string        `json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// IsTerminal сообщает, достиг ли платеж конечного статуса
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Единственные разрешенные переходы: pending -> {paid, failed, cancelled}.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	return next.IsTerminal()
}

// ValidMethod проверяет, что способ оплаты известен
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodStripe:
		return true
	}
	return false
}

// ManualPaymentRequest представляет запрос на ручную запись платежа
// (наличные или перевод, фиксируется сразу как оплаченный)
type ManualPaymentRequest struct {
	CourseID *uuid.UUID    `json:"course_id"`
	LessonID *uuid.UUID    `json:"lesson_id"`
	Amount   float64       `json:"amount" binding:"required,gt=0"`
	Method   PaymentMethod `json:"method" binding:"required"`
}

// StripePaymentRequest представляет запрос на оплату через Stripe.
// Должно быть указано ровно одно из полей course_id / lesson_id.
type StripePaymentRequest struct {
	CourseID *uuid.UUID `json:"course_id"`
	LessonID *uuid.UUID `json:"lesson_id"`
	Amount   float64    `json:"amount"`
}

// StripePaymentResponse ответ на создание платежа через Stripe
type StripePaymentResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	CheckoutURL string    `json:"checkout_url"`
	SessionID   string    `json:"session_id"`
}

// PaymentFilter параметры фильтрации списка платежей
type PaymentFilter struct {
	CourseID      *uuid.UUID
	LessonID      *uuid.UUID
	Method        PaymentMethod
	OrderByDesc   bool
}

// PaymentStats агрегированная статистика платежей пользователя
type PaymentStats struct {
	TotalAmount float64                   `json:"total_amount"`
	ByMethod    map[PaymentMethod]float64 `json:"by_method"`
}
