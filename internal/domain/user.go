package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет собой пользователя платформы.
// Email служит логином; владение курсами, уроками и платежами жесткое:
// удаление пользователя каскадно удаляет все его записи.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	City        string    `json:"city,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsModerator bool      `json:"is_moderator"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserCreateRequest представляет запрос на регистрацию пользователя
type UserCreateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	AvatarURL string `json:"avatar_url"`
}

// UserUpdateRequest представляет запрос на обновление профиля.
// Поля-указатели различают "не передано" и "передано пустым".
type UserUpdateRequest struct {
	Phone     *string `json:"phone"`
	City      *string `json:"city"`
	AvatarURL *string `json:"avatar_url"`
}
