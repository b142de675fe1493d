package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardbank/ledger/internal/app/core/domain"
)

// CoreUseCase fronts the ledger port for the inbound adapters.
type CoreUseCase struct {
	ledger Ledger
}

func NewCoreUseCase(ledger Ledger) *CoreUseCase {
	return &CoreUseCase{
		ledger: ledger,
	}
}

// PostTransaction records one posting. Non-positive amounts are rejected
// before the backend is consulted, so a failed request leaves no trace. A
// zero ref ID gets a fresh UUID so every posting is individually retryable.
func (c *CoreUseCase) PostTransaction(ctx context.Context, posting *domain.Posting) (*domain.Transaction, error) {
	if !posting.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if posting.RefID == uuid.Nil {
		posting.RefID = uuid.New()
	}
	return c.ledger.PostTransaction(ctx, posting)
}

// GetAccount looks an account up by exact card number.
func (c *CoreUseCase) GetAccount(ctx context.Context, cardNumber string) (*domain.Account, error) {
	return c.ledger.GetAccount(ctx, cardNumber)
}

// GetTransaction looks a transaction up by id.
func (c *CoreUseCase) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return c.ledger.GetTransaction(ctx, id)
}

// ListTransactionsForCard returns the posting history of a card.
func (c *CoreUseCase) ListTransactionsForCard(ctx context.Context, cardNumber string) ([]*domain.Transaction, error) {
	return c.ledger.ListTransactionsForCard(ctx, cardNumber)
}

// CardStatement is an account summary with its posting history embedded.
type CardStatement struct {
	Account      *domain.Account
	Transactions []*domain.Transaction
}

// GetCardStatement resolves an account and attaches every transaction where
// the card appears as sender or recipient.
func (c *CoreUseCase) GetCardStatement(ctx context.Context, cardNumber string) (*CardStatement, error) {
	account, err := c.ledger.GetAccount(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	transactions, err := c.ledger.ListTransactionsForCard(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	return &CardStatement{
		Account:      account,
		Transactions: transactions,
	}, nil
}
