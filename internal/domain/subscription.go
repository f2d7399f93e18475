package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription представляет собой подписку пользователя на курс.
// Пара (user, course) уникальна; удаление немедленное и окончательное.
type Subscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionToggleRequest представляет запрос на переключение подписки
type SubscriptionToggleRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}
