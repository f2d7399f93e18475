package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey ключ контекста Gin с идентификатором вызывающего
const UserIDKey = "user_id"

// UserIDHeader заголовок с идентификатором вызывающего. Выдача и
// проверка токенов остаются за внешним шлюзом: сервис доверяет
// заголовку как есть.
const UserIDHeader = "X-User-ID"

// AuthMiddleware извлекает идентификатор пользователя из заголовка
// и кладет его в контекст запроса
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "invalid " + UserIDHeader + " header"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID возвращает идентификатор пользователя из контекста запроса
func UserID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
