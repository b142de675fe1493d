package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbank/ledger/internal/app/core/domain"
)

// stubLedger records calls so tests can assert what reached the backend.
type stubLedger struct {
	posted  []*domain.Posting
	account *domain.Account
	history []*domain.Transaction
	err     error
}

func (s *stubLedger) PostTransaction(ctx context.Context, posting *domain.Posting) (*domain.Transaction, error) {
	s.posted = append(s.posted, posting)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Transaction{ID: 1, RefID: posting.RefID, Amount: posting.Amount}, nil
}

func (s *stubLedger) GetAccount(ctx context.Context, cardNumber string) (*domain.Account, error) {
	if s.account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return s.account, nil
}

func (s *stubLedger) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return nil, domain.ErrTransactionNotFound
}

func (s *stubLedger) ListTransactionsForCard(ctx context.Context, cardNumber string) ([]*domain.Transaction, error) {
	return s.history, nil
}

func (s *stubLedger) LoadAllAccounts(ctx context.Context) (map[string]*domain.Account, error) {
	return nil, nil
}

func TestPostTransactionRejectsNonPositiveAmountBeforeBackend(t *testing.T) {
	stub := &stubLedger{}
	core := NewCoreUseCase(stub)

	for _, amount := range []string{"0", "-1"} {
		d, err := decimal.NewFromString(amount)
		require.NoError(t, err)

		_, err = core.PostTransaction(context.Background(), &domain.Posting{Amount: d})

		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Empty(t, stub.posted, "backend must not see rejected postings")
}

func TestPostTransactionAssignsRefID(t *testing.T) {
	stub := &stubLedger{}
	core := NewCoreUseCase(stub)

	tran, err := core.PostTransaction(context.Background(), &domain.Posting{
		Amount: decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tran.RefID)
	require.Len(t, stub.posted, 1)
	assert.Equal(t, tran.RefID, stub.posted[0].RefID)
}

func TestPostTransactionKeepsCallerRefID(t *testing.T) {
	stub := &stubLedger{}
	core := NewCoreUseCase(stub)
	refID := uuid.New()

	_, err := core.PostTransaction(context.Background(), &domain.Posting{
		RefID:  refID,
		Amount: decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	require.Len(t, stub.posted, 1)
	assert.Equal(t, refID, stub.posted[0].RefID)
}

func TestGetCardStatement(t *testing.T) {
	stub := &stubLedger{
		account: domain.NewAccount("1111", decimal.NewFromInt(100)),
		history: []*domain.Transaction{{ID: 1}, {ID: 2}},
	}
	core := NewCoreUseCase(stub)

	statement, err := core.GetCardStatement(context.Background(), "1111")

	require.NoError(t, err)
	assert.Equal(t, "1111", statement.Account.CardNumber)
	assert.Len(t, statement.Transactions, 2)
}

func TestGetCardStatementNotFound(t *testing.T) {
	core := NewCoreUseCase(&stubLedger{})

	_, err := core.GetCardStatement(context.Background(), "1111")

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
