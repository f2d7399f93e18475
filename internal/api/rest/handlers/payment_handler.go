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

// PaymentHandler обработчик для платежей
type PaymentHandler struct {
	service *service.PaymentService
	log     *logger.Logger
}

// NewPaymentHandler создает новый обработчик платежей
func NewPaymentHandler(svc *service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: svc, log: log}
}

// GetPayments возвращает платежи вызывающего с фильтрацией по курсу,
// уроку и способу оплаты; order=desc сортирует от новых к старым
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	var filter domain.PaymentFilter

	if raw := c.Query("course_id"); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id format"})
			return
		}
		filter.CourseID = &courseID
	}
	if raw := c.Query("lesson_id"); raw != "" {
		lessonID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson_id format"})
			return
		}
		filter.LessonID = &lessonID
	}
	if raw := c.Query("method"); raw != "" {
		method := domain.PaymentMethod(raw)
		if !domain.ValidMethod(method) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
			return
		}
		filter.Method = method
	}
	filter.OrderByDesc = c.Query("order") == "desc"

	payments, err := h.service.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// CreatePayment записывает платеж наличными или переводом
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req domain.ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.CreateManual(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetStats возвращает агрегаты по платежам вызывающего
func (h *PaymentHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateStripePayment начинает оплату через Stripe и возвращает ссылку
// на страницу оплаты
func (h *PaymentHandler) CreateStripePayment(c *gin.Context) {
	var req domain.StripePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.InitiateStripe(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetStripeStatus возвращает живой статус сессии оплаты и сверяет
// локальную запись платежа
func (h *PaymentHandler) GetStripeStatus(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	status, err := h.service.CheckStatus(c.Request.Context(), middleware.UserID(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// PaymentSuccess обрабатывает возврат со страницы успешной оплаты.
// Всегда отвечает 200.
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	message := h.service.HandleSuccess(c.Request.Context(), c.Query("session_id"))
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// PaymentCancel обрабатывает возврат со страницы отмены оплаты.
// Всегда отвечает 200.
func (h *PaymentHandler) PaymentCancel(c *gin.Context) {
	message := h.service.HandleCancel(c.Request.Context(), c.Query("session_id"))
	c.JSON(http.StatusOK, gin.H{"message": message})
}
