package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPaymentStatusTransitions - проверяет допустимые переходы статусов
func TestPaymentStatusTransitions(t *testing.T) {
	t.Parallel()

	// Из pending разрешены все конечные статусы
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCancelled))

	// Конечные статусы не меняются
	for _, terminal := range []PaymentStatus{PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled} {
		assert.False(t, terminal.CanTransitionTo(PaymentStatusPaid))
		assert.False(t, terminal.CanTransitionTo(PaymentStatusFailed))
		assert.False(t, terminal.CanTransitionTo(PaymentStatusCancelled))
		assert.True(t, terminal.IsTerminal())
	}

	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPending))
}

// TestValidMethod - проверяет список известных способов оплаты
func TestValidMethod(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidMethod(PaymentMethodCash))
	assert.True(t, ValidMethod(PaymentMethodTransfer))
	assert.True(t, ValidMethod(PaymentMethodStripe))
	assert.False(t, ValidMethod(PaymentMethod("paypal")))
	assert.False(t, ValidMethod(PaymentMethod("")))
}
