package handlers

import (
	"net/http"

	"github.com/Dhoini/course-platform/internal/api/rest/middleware"
	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/service"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LessonHandler обработчик для уроков
type LessonHandler struct {
	service *service.LessonService
	log     *logger.Logger
}

// NewLessonHandler создает новый обработчик уроков
func NewLessonHandler(svc *service.LessonService, log *logger.Logger) *LessonHandler {
	return &LessonHandler{service: svc, log: log}
}

// CreateLesson создает новый урок
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req domain.LessonCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// GetLessons возвращает уроки вызывающего
func (h *LessonHandler) GetLessons(c *gin.Context) {
	lessons, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// GetLesson возвращает урок по ID
func (h *LessonHandler) GetLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson ID format"})
		return
	}

	lesson, err := h.service.Get(c.Request.Context(), middleware.UserID(c), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// UpdateLesson обновляет урок. Обновление считается обновлением
// владеющего курса и может запустить рассылку уведомлений.
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson ID format"})
		return
	}

	var req domain.LessonUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.service.Update(c.Request.Context(), middleware.UserID(c), lessonID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson удаляет урок
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson ID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), lessonID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
