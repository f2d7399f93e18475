package handlers

import (
	"net/http"

	"github.com/Dhoini/course-platform/internal/api/rest/middleware"
	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/service"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UserHandler обработчик для пользователей
type UserHandler struct {
	service *service.UserService
	log     *logger.Logger
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: svc, log: log}
}

// Register регистрирует нового пользователя
func (h *UserHandler) Register(c *gin.Context) {
	var req domain.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetProfile возвращает профиль вызывающего
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile обновляет профиль вызывающего
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Update(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteProfile удаляет вызывающего со всем его содержимым
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
