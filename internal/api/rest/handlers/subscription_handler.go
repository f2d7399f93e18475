package handlers

import (
	"net/http"

	"github.com/Dhoini/course-platform/internal/api/rest/middleware"
	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/service"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler обработчик для подписок на курсы
type SubscriptionHandler struct {
	service *service.SubscriptionService
	log     *logger.Logger
}

// NewSubscriptionHandler создает новый обработчик подписок
func NewSubscriptionHandler(svc *service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc, log: log}
}

// ToggleSubscription переключает подписку вызывающего на курс:
// 201 при создании, 204 при удалении
func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	var req domain.SubscriptionToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Toggle(c.Request.Context(), middleware.UserID(c), req.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "подписка добавлена"})
		return
	}

	c.Status(http.StatusNoContent)
}
