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

// CourseHandler обработчик для курсов
type CourseHandler struct {
	service *service.CourseService
	log     *logger.Logger
}

// NewCourseHandler создает новый обработчик курсов
func NewCourseHandler(svc *service.CourseService, log *logger.Logger) *CourseHandler {
	return &CourseHandler{service: svc, log: log}
}

// CreateCourse создает новый курс
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req domain.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourses возвращает курсы вызывающего
func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse возвращает курс по ID
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course ID format"})
		return
	}

	course, err := h.service.Get(c.Request.Context(), middleware.UserID(c), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse обновляет курс. Обновление может запустить рассылку
// уведомлений подписчикам.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course ID format"})
		return
	}

	var req domain.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.service.Update(c.Request.Context(), middleware.UserID(c), courseID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse удаляет курс вместе с уроками и подписками
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course ID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), courseID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
