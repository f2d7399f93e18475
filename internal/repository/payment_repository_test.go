package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingPayment(t *testing.T, repo *InMemoryPaymentRepository) domain.Payment {
	t.Helper()
	payment, err := repo.Create(context.Background(), domain.Payment{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Amount: 1000,
		Method: domain.PaymentMethodStripe,
		Status: domain.PaymentStatusPending,
	})
	require.NoError(t, err)
	return payment
}

// TestUpdateStatusIfPending_SingleTransition - условный переход
// срабатывает ровно один раз даже под конкуренцией
func TestUpdateStatusIfPending_SingleTransition(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryPaymentRepository(logger.New(logger.ERROR))
	payment := newPendingPayment(t, repo)

	statuses := []domain.PaymentStatus{
		domain.PaymentStatusPaid,
		domain.PaymentStatusCancelled,
		domain.PaymentStatusFailed,
		domain.PaymentStatusPaid,
	}

	var wg sync.WaitGroup
	results := make([]bool, len(statuses))
	for i, status := range statuses {
		wg.Add(1)
		go func(i int, status domain.PaymentStatus) {
			defer wg.Done()
			swapped, err := repo.UpdateStatusIfPending(context.Background(), payment.ID, status)
			assert.NoError(t, err)
			results[i] = swapped
		}(i, status)
	}
	wg.Wait()

	swappedCount := 0
	for _, swapped := range results {
		if swapped {
			swappedCount++
		}
	}
	assert.Equal(t, 1, swappedCount, "переход должен состояться ровно один раз")

	got, err := repo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.True(t, got.Status.IsTerminal())
}

// TestUpdateStatusIfPending_TerminalIsFinal - платеж в конечном статусе
// больше не меняется
func TestUpdateStatusIfPending_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryPaymentRepository(logger.New(logger.ERROR))
	payment := newPendingPayment(t, repo)

	swapped, err := repo.UpdateStatusIfPending(context.Background(), payment.ID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	require.True(t, swapped)

	swapped, err = repo.UpdateStatusIfPending(context.Background(), payment.ID, domain.PaymentStatusCancelled)
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err := repo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, got.Status)
}

// TestUpdateStatusIfPending_UnknownPayment - переход по несуществующему
// платежу возвращает ошибку
func TestUpdateStatusIfPending_UnknownPayment(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryPaymentRepository(logger.New(logger.ERROR))

	swapped, err := repo.UpdateStatusIfPending(context.Background(), uuid.New(), domain.PaymentStatusPaid)
	assert.False(t, swapped)
	assert.ErrorIs(t, err, ErrNotFound)
}
