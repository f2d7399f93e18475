package rest

import (
	"github.com/Dhoini/course-platform/internal/api/rest/handlers"
	"github.com/Dhoini/course-platform/internal/api/rest/middleware"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers собирает обработчики HTTP API
type Handlers struct {
	Users         *handlers.UserHandler
	Courses       *handlers.CourseHandler
	Lessons       *handlers.LessonHandler
	Subscriptions *handlers.SubscriptionHandler
	Payments      *handlers.PaymentHandler
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(h Handlers, registry *prometheus.Registry, log *logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		// Регистрация не требует идентификации
		v1.POST("/users", h.Users.Register)

		// Возвраты со страниц оплаты приходят без заголовка
		// идентификации: редиректит провайдер, а не клиент API
		v1.GET("/payments/success", h.Payments.PaymentSuccess)
		v1.GET("/payments/cancel", h.Payments.PaymentCancel)

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			users := authed.Group("/users")
			{
				users.GET("/me", h.Users.GetProfile)
				users.PUT("/me", h.Users.UpdateProfile)
				users.DELETE("/me", h.Users.DeleteProfile)
			}

			courses := authed.Group("/courses")
			{
				courses.POST("", h.Courses.CreateCourse)
				courses.GET("", h.Courses.GetCourses)
				courses.GET("/:id", h.Courses.GetCourse)
				courses.PUT("/:id", h.Courses.UpdateCourse)
				courses.PATCH("/:id", h.Courses.UpdateCourse)
				courses.DELETE("/:id", h.Courses.DeleteCourse)
			}

			lessons := authed.Group("/lessons")
			{
				lessons.POST("", h.Lessons.CreateLesson)
				lessons.GET("", h.Lessons.GetLessons)
				lessons.GET("/:id", h.Lessons.GetLesson)
				lessons.PUT("/:id", h.Lessons.UpdateLesson)
				lessons.PATCH("/:id", h.Lessons.UpdateLesson)
				lessons.DELETE("/:id", h.Lessons.DeleteLesson)
			}

			authed.POST("/subscriptions", h.Subscriptions.ToggleSubscription)

			payments := authed.Group("/payments")
			{
				payments.GET("", h.Payments.GetPayments)
				payments.POST("", h.Payments.CreatePayment)
				payments.GET("/stats", h.Payments.GetStats)
				payments.POST("/stripe/create", h.Payments.CreateStripePayment)
				payments.GET("/stripe/status", h.Payments.GetStripeStatus)
			}
		}
	}

	return r
}
