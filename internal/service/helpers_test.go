package service

import (
	"context"
	"sync"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/internal/stripe"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// fakeTaskProducer записывает поставленные задачи вместо отправки в Kafka
type fakeTaskProducer struct {
	mu      sync.Mutex
	tasks   []domain.CourseUpdateTask
	failErr error
}

func (p *fakeTaskProducer) EnqueueCourseUpdate(ctx context.Context, task domain.CourseUpdateTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakeTaskProducer) Close() error { return nil }

func (p *fakeTaskProducer) enqueued() []domain.CourseUpdateTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.CourseUpdateTask(nil), p.tasks...)
}

// fakePaymentProducer записывает события платежей
type fakePaymentProducer struct {
	mu      sync.Mutex
	created []domain.Payment
	updated []domain.Payment
}

func (p *fakePaymentProducer) PublishPaymentCreated(payment domain.Payment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, payment)
	return nil
}

func (p *fakePaymentProducer) PublishPaymentUpdated(payment domain.Payment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, payment)
	return nil
}

func (p *fakePaymentProducer) Close() error { return nil }

// fakeGateway реализует платежный шлюз с заранее заданными ответами
type fakeGateway struct {
	sessionStatus   string
	productCalls    int
	priceCalls      int
	sessionCalls    int
	statusCalls     int
	lastName        string
	lastDescription string
	lastAmount      float64
}

func (g *fakeGateway) CreateProduct(ctx context.Context, name, description string) (stripe.Product, error) {
	g.productCalls++
	g.lastName = name
	g.lastDescription = description
	return stripe.Product{ID: "prod_test", Name: name, Description: description}, nil
}

func (g *fakeGateway) CreatePrice(ctx context.Context, productID string, amount float64, currency string) (stripe.Price, error) {
	g.priceCalls++
	g.lastAmount = amount
	return stripe.Price{ID: "price_test", ProductID: productID, Amount: stripe.MinorUnits(amount), Currency: currency}, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string, metadata map[string]string) (stripe.CheckoutSession, error) {
	g.sessionCalls++
	return stripe.CheckoutSession{ID: "cs_test", URL: "https://checkout.stripe.com/pay/cs_test"}, nil
}

func (g *fakeGateway) GetSessionStatus(ctx context.Context, sessionID string) (stripe.SessionStatus, error) {
	g.statusCalls++
	return stripe.SessionStatus{ID: sessionID, PaymentStatus: g.sessionStatus}, nil
}

// fakeSender реализует почтовый транспорт для тестов
type fakeSender struct {
	configured bool
	failErr    error
	sent       []string
	lastBody   string
}

func (s *fakeSender) Send(to, subject, body string) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.sent = append(s.sent, to)
	s.lastBody = body
	return nil
}

func (s *fakeSender) Configured() bool { return s.configured }

// testEnv собирает зависимости сервисов поверх хранилищ в памяти
type testEnv struct {
	log           *logger.Logger
	users         *repository.InMemoryUserRepository
	courses       *repository.InMemoryCourseRepository
	lessons       *repository.InMemoryLessonRepository
	subscriptions *repository.InMemorySubscriptionRepository
	payments      *repository.InMemoryPaymentRepository
	producer      *fakeTaskProducer
	notifier      *UpdateNotifier
}

func newTestEnv() *testEnv {
	log := logger.New(logger.ERROR)
	env := &testEnv{
		log:           log,
		users:         repository.NewInMemoryUserRepository(log),
		courses:       repository.NewInMemoryCourseRepository(log),
		lessons:       repository.NewInMemoryLessonRepository(log),
		subscriptions: repository.NewInMemorySubscriptionRepository(log),
		payments:      repository.NewInMemoryPaymentRepository(log),
		producer:      &fakeTaskProducer{},
	}
	env.notifier = NewUpdateNotifier(
		env.subscriptions,
		env.users,
		env.producer,
		metrics.NewNotificationMetrics(prometheus.NewRegistry(), log),
		log,
	)
	return env
}

func (e *testEnv) courseService() *CourseService {
	return NewCourseService(e.courses, e.lessons, e.subscriptions, e.payments, e.users, e.notifier, e.log)
}

func (e *testEnv) lessonService() *LessonService {
	return NewLessonService(e.lessons, e.courses, e.payments, e.users, e.notifier, e.log)
}

func (e *testEnv) subscriptionService() *SubscriptionService {
	return NewSubscriptionService(e.subscriptions, e.courses, e.log)
}
