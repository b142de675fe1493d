package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestClassify(t *testing.T) {
	known := NewAccount("1111", decimal.Zero)

	tests := []struct {
		name string
		from *Account
		to   *Account
		want OperationType
	}{
		{"to known only", nil, known, OperationDeposit},
		{"from known only", known, nil, OperationWithdraw},
		{"both known", known, known, OperationTransfer},
		{"neither known", nil, nil, OperationExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.from, tt.to))
		})
	}
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5.00"} {
		to := NewAccount("1111", dec(t, "100.00"))
		posting := &Posting{ToCard: "1111", Amount: dec(t, amount)}

		_, _, err := Apply(posting, nil, to)

		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, "100.00", to.Balance.StringFixed(2))
	}
}

func TestApplyDeposit(t *testing.T) {
	to := NewAccount("1111", dec(t, "100.00"))
	posting := &Posting{ToCard: "1111", Amount: dec(t, "25.50")}

	op, after, err := Apply(posting, nil, to)

	require.NoError(t, err)
	assert.Equal(t, OperationDeposit, op)
	assert.Equal(t, "125.50", to.Balance.StringFixed(2))
	require.NotNil(t, after)
	assert.Equal(t, "125.50", after.StringFixed(2))
}

func TestApplyWithdraw(t *testing.T) {
	from := NewAccount("1111", dec(t, "100.00"))

	op, after, err := Apply(&Posting{FromCard: "1111", Amount: dec(t, "40.00")}, from, nil)

	require.NoError(t, err)
	assert.Equal(t, OperationWithdraw, op)
	assert.Equal(t, "60.00", from.Balance.StringFixed(2))
	require.NotNil(t, after)
	assert.Equal(t, "60.00", after.StringFixed(2))

	// Second withdrawal overdraws and must leave the balance untouched.
	_, _, err = Apply(&Posting{FromCard: "1111", Amount: dec(t, "70.00")}, from, nil)

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "60.00", from.Balance.StringFixed(2))
}

func TestApplyTransfer(t *testing.T) {
	from := NewAccount("1111", dec(t, "100.00"))
	to := NewAccount("2222", dec(t, "10.00"))

	op, after, err := Apply(&Posting{FromCard: "1111", ToCard: "2222", Amount: dec(t, "30.00")}, from, to)

	require.NoError(t, err)
	assert.Equal(t, OperationTransfer, op)
	assert.Equal(t, "70.00", from.Balance.StringFixed(2))
	assert.Equal(t, "40.00", to.Balance.StringFixed(2))
	// The snapshot is the sender's post-debit balance.
	require.NotNil(t, after)
	assert.Equal(t, "70.00", after.StringFixed(2))
}

func TestApplyTransferInsufficientTouchesNeither(t *testing.T) {
	from := NewAccount("1111", dec(t, "10.00"))
	to := NewAccount("2222", dec(t, "5.00"))

	_, _, err := Apply(&Posting{FromCard: "1111", ToCard: "2222", Amount: dec(t, "30.00")}, from, to)

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "10.00", from.Balance.StringFixed(2))
	assert.Equal(t, "5.00", to.Balance.StringFixed(2))
}

func TestApplyExternal(t *testing.T) {
	op, after, err := Apply(&Posting{FromCard: "9999", ToCard: "8888", Amount: dec(t, "15.00")}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, OperationExternal, op)
	assert.Nil(t, after)
}

func TestLockCardsOrder(t *testing.T) {
	a := &Posting{FromCard: "2222", ToCard: "1111"}
	b := &Posting{FromCard: "1111", ToCard: "2222"}

	// Opposed transfers over the same pair must lock in the same order.
	assert.Equal(t, []string{"1111", "2222"}, a.LockCards())
	assert.Equal(t, []string{"1111", "2222"}, b.LockCards())

	assert.Equal(t, []string{"1111"}, (&Posting{ToCard: "1111"}).LockCards())
	assert.Equal(t, []string{"1111"}, (&Posting{FromCard: "1111", ToCard: "1111"}).LockCards())
	assert.Empty(t, (&Posting{}).LockCards())
}
