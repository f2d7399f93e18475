package handlers

import (
	"errors"
	"net/http"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError переводит доменную ошибку в HTTP-ответ
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrExternalServiceUnavailable):
		// Клиент платежного API получает сообщение провайдера как
		// ошибку своего запроса, а не ошибку шлюза
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
