package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusledger/backend/internal/domain/shared"
)

func TestNewPayment(t *testing.T) {
	t.Run("creates completed payment by default", func(t *testing.T) {
		p, err := NewPayment(
			uuid.New(), uuid.New(), uuid.New(),
			"cash", decimal.RequireFromString("120.50"), "TXN-1", "", nil,
		)

		require.NoError(t, err)
		assert.Equal(t, PaymentStatusCompleted, p.Status)
		assert.True(t, p.Status.CountsTowardBalance())
		assert.False(t, p.PaymentDate.IsZero())
	})

	t.Run("honours an explicit status", func(t *testing.T) {
		p, err := NewPayment(
			uuid.New(), uuid.New(), uuid.New(),
			"bank_transfer", decimal.RequireFromString("10.00"), "", PaymentStatusPending, nil,
		)

		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, p.Status)
		assert.False(t, p.Status.CountsTowardBalance())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []string{"0", "-1.00"} {
			_, err := NewPayment(
				uuid.New(), uuid.New(), uuid.New(),
				"cash", decimal.RequireFromString(amount), "", "", nil,
			)

			require.Error(t, err, "amount %s", amount)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
		}
	})

	t.Run("rejects unknown status labels", func(t *testing.T) {
		_, err := NewPayment(
			uuid.New(), uuid.New(), uuid.New(),
			"cash", decimal.New(1, 0), "", PaymentStatus("Settled"), nil,
		)
		assert.Error(t, err)
	})

	t.Run("requires invoice, student and method", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), uuid.Nil, uuid.New(), "cash", decimal.New(1, 0), "", "", nil)
		assert.Error(t, err)

		_, err = NewPayment(uuid.New(), uuid.New(), uuid.Nil, "cash", decimal.New(1, 0), "", "", nil)
		assert.Error(t, err)

		_, err = NewPayment(uuid.New(), uuid.New(), uuid.New(), "", decimal.New(1, 0), "", "", nil)
		assert.Error(t, err)
	})
}

func TestPaymentStatus(t *testing.T) {
	assert.True(t, PaymentStatusCompleted.IsValid())
	assert.True(t, PaymentStatusPending.IsValid())
	assert.True(t, PaymentStatusFailed.IsValid())
	assert.False(t, PaymentStatus("Refunded").IsValid())

	assert.True(t, PaymentStatusCompleted.CountsTowardBalance())
	assert.False(t, PaymentStatusFailed.CountsTowardBalance())
}
