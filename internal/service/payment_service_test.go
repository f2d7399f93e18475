package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Dhoini/course-platform/config"
	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) paymentService(gateway *fakeGateway) (*PaymentService, *fakePaymentProducer) {
	events := &fakePaymentProducer{}
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Stripe.Currency = "rub"

	svc := NewPaymentService(
		e.payments,
		e.courses,
		e.lessons,
		gateway,
		events,
		metrics.NewPaymentMetrics(prometheus.NewRegistry(), e.log),
		cfg,
		e.log,
	)
	return svc, events
}

// TestInitiateStripe_MutualExclusion - платеж указывает либо курс, либо
// урок, но не оба и не ни одного
func TestInitiateStripe_MutualExclusion(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	buyer := env.createUser(t, "buyer@example.com")
	course := env.createCourse(t, owner.ID, "Go")
	lesson, err := env.lessonService().Create(ctx, owner.ID, domain.LessonCreateRequest{
		Name:        "Горутины",
		Description: "про горутины",
		CourseID:    course.ID,
	})
	require.NoError(t, err)

	svc, _ := env.paymentService(&fakeGateway{})

	// Оба сразу
	_, err = svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{
		CourseID: &course.ID,
		LessonID: &lesson.ID,
		Amount:   1000,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Ни одного
	_, err = svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{Amount: 1000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Несуществующий курс
	missing := uuid.New()
	_, err = svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{
		CourseID: &missing,
		Amount:   1000,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestInitiateStripe_PersistsProviderIDs - успешная инициация создает
// ожидающий платеж с идентификаторами провайдера
func TestInitiateStripe_PersistsProviderIDs(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	buyer := env.createUser(t, "buyer@example.com")
	course := env.createCourse(t, owner.ID, "Go в продакшене")

	gateway := &fakeGateway{}
	svc, events := env.paymentService(gateway)

	resp, err := svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{
		CourseID: &course.ID,
		Amount:   2500,
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test", resp.CheckoutURL)
	assert.Equal(t, 1, gateway.productCalls)
	assert.Equal(t, 1, gateway.priceCalls)
	assert.Equal(t, 1, gateway.sessionCalls)
	assert.Equal(t, 2500.0, gateway.lastAmount)

	payment, err := env.payments.GetByID(ctx, resp.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, domain.PaymentMethodStripe, payment.Method)
	assert.Equal(t, "prod_test", payment.StripeProductID)
	assert.Equal(t, "price_test", payment.StripePriceID)
	assert.Equal(t, "cs_test", payment.StripeSessionID)

	assert.Len(t, events.created, 1, "о создании платежа публикуется событие")
}

// TestCheckStatus_ReconciliationMapping - статус провайдера отображается
// на локальную запись: paid -> paid, unpaid -> failed, иное не трогает
func TestCheckStatus_ReconciliationMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		providerStatus string
		wantLocal      domain.PaymentStatus
	}{
		{"paid переводит в оплаченные", "paid", domain.PaymentStatusPaid},
		{"unpaid переводит в неуспешные", "unpaid", domain.PaymentStatusFailed},
		{"неизвестный статус оставляет pending", "no_payment_required", domain.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			ctx := context.Background()

			owner := env.createUser(t, "owner@example.com")
			buyer := env.createUser(t, "buyer@example.com")
			course := env.createCourse(t, owner.ID, "Go")

			gateway := &fakeGateway{sessionStatus: tt.providerStatus}
			svc, _ := env.paymentService(gateway)

			resp, err := svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{
				CourseID: &course.ID,
				Amount:   1000,
			})
			require.NoError(t, err)

			status, err := svc.CheckStatus(ctx, buyer.ID, resp.SessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.providerStatus, status.PaymentStatus,
				"вызывающему всегда возвращается живой статус провайдера")

			payment, err := env.payments.GetByID(ctx, resp.PaymentID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLocal, payment.Status)
		})
	}
}

// TestCheckStatus_WithoutLocalPayment - живой статус провайдера
// возвращается и тогда, когда локальной записи о платеже нет
func TestCheckStatus_WithoutLocalPayment(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	buyer := env.createUser(t, "buyer@example.com")

	gateway := &fakeGateway{sessionStatus: "paid"}
	svc, _ := env.paymentService(gateway)

	status, err := svc.CheckStatus(ctx, buyer.ID, "cs_no_local_row")
	require.NoError(t, err)
	assert.Equal(t, "paid", status.PaymentStatus)
	assert.Equal(t, 1, gateway.statusCalls)
}

// TestReconciliation_TerminalStatusSetOnce - конкурирующие пути сверки
// выполняют ровно один переход в конечный статус
func TestReconciliation_TerminalStatusSetOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	buyer := env.createUser(t, "buyer@example.com")
	course := env.createCourse(t, owner.ID, "Go")

	gateway := &fakeGateway{sessionStatus: "paid"}
	svc, events := env.paymentService(gateway)

	resp, err := svc.InitiateStripe(ctx, buyer.ID, domain.StripePaymentRequest{
		CourseID: &course.ID,
		Amount:   1000,
	})
	require.NoError(t, err)

	// Успешная оплата и попытка отмены наперегонки
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(cancel bool) {
			defer wg.Done()
			if cancel {
				svc.HandleCancel(ctx, resp.SessionID)
			} else {
				svc.HandleSuccess(ctx, resp.SessionID)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	payment, err := env.payments.GetByID(ctx, resp.PaymentID)
	require.NoError(t, err)
	assert.True(t, payment.Status.IsTerminal())

	events.mu.Lock()
	updatedCount := len(events.updated)
	events.mu.Unlock()
	assert.Equal(t, 1, updatedCount, "событие об изменении статуса публикуется ровно один раз")

	// Повторная сверка уже ничего не меняет
	finalStatus := payment.Status
	_, err = svc.CheckStatus(ctx, buyer.ID, resp.SessionID)
	require.NoError(t, err)

	payment, err = env.payments.GetByID(ctx, resp.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, finalStatus, payment.Status)
}

// TestHandleSuccess_AlwaysReturnsMessage - callback-и возвращают
// сообщение даже для неизвестной сессии
func TestHandleSuccess_AlwaysReturnsMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	svc, _ := env.paymentService(&fakeGateway{})

	assert.NotEmpty(t, svc.HandleSuccess(context.Background(), "cs_unknown"))
	assert.NotEmpty(t, svc.HandleSuccess(context.Background(), ""))
	assert.NotEmpty(t, svc.HandleCancel(context.Background(), "cs_unknown"))
}

// TestCreateManual_RecordedAsPaid - ручные платежи фиксируются сразу
// как оплаченные
func TestCreateManual_RecordedAsPaid(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	buyer := env.createUser(t, "buyer@example.com")
	course := env.createCourse(t, owner.ID, "Go")

	svc, _ := env.paymentService(&fakeGateway{})

	payment, err := svc.CreateManual(ctx, buyer.ID, domain.ManualPaymentRequest{
		CourseID: &course.ID,
		Amount:   3000,
		Method:   domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, payment.Status)

	// Stripe ручным способом не является
	_, err = svc.CreateManual(ctx, buyer.ID, domain.ManualPaymentRequest{
		CourseID: &course.ID,
		Amount:   3000,
		Method:   domain.PaymentMethodStripe,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestStats_SumsOnlyPaid - агрегаты считаются только по оплаченным
func TestStats_SumsOnlyPaid(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	buyer := env.createUser(t, "buyer@example.com")
	svc, _ := env.paymentService(&fakeGateway{})

	for _, p := range []domain.Payment{
		{ID: uuid.New(), UserID: buyer.ID, Amount: 1000, Method: domain.PaymentMethodCash, Status: domain.PaymentStatusPaid},
		{ID: uuid.New(), UserID: buyer.ID, Amount: 2000, Method: domain.PaymentMethodTransfer, Status: domain.PaymentStatusPaid},
		{ID: uuid.New(), UserID: buyer.ID, Amount: 500, Method: domain.PaymentMethodStripe, Status: domain.PaymentStatusPending},
	} {
		_, err := env.payments.Create(ctx, p)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, stats.TotalAmount)
	assert.Equal(t, 1000.0, stats.ByMethod[domain.PaymentMethodCash])
	assert.Equal(t, 2000.0, stats.ByMethod[domain.PaymentMethodTransfer])
	assert.NotContains(t, stats.ByMethod, domain.PaymentMethodStripe)
}
