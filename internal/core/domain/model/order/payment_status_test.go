package order_test

import (
	"testing"

	"lunchroom/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_Transitions(t *testing.T) {
	t.Run("pending completes", func(t *testing.T) {
		next, err := order.PaymentPending.Complete()
		require.NoError(t, err)
		assert.Equal(t, order.PaymentCompleted, next)
	})

	t.Run("failed payment can still complete on retry", func(t *testing.T) {
		next, err := order.PaymentFailed.Complete()
		require.NoError(t, err)
		assert.Equal(t, order.PaymentCompleted, next)
	})

	t.Run("pending fails", func(t *testing.T) {
		next, err := order.PaymentPending.Fail()
		require.NoError(t, err)
		assert.Equal(t, order.PaymentFailed, next)
	})

	t.Run("completed cannot fail", func(t *testing.T) {
		_, err := order.PaymentCompleted.Fail()
		require.Error(t, err)
	})

	t.Run("completed refunds", func(t *testing.T) {
		next, err := order.PaymentCompleted.Refund()
		require.NoError(t, err)
		assert.Equal(t, order.PaymentRefunded, next)
	})

	t.Run("pending cannot refund", func(t *testing.T) {
		_, err := order.PaymentPending.Refund()
		require.Error(t, err)
	})
}

func TestPaymentStatus_FromString(t *testing.T) {
	for str, want := range map[string]order.PaymentStatus{
		"PENDING":   order.PaymentPending,
		"COMPLETED": order.PaymentCompleted,
		"FAILED":    order.PaymentFailed,
		"REFUNDED":  order.PaymentRefunded,
	} {
		status, err := order.PaymentStatusFromString(str)
		require.NoError(t, err)
		assert.Equal(t, want, status)
	}

	_, err := order.PaymentStatusFromString("PAID")
	require.Error(t, err)
}
