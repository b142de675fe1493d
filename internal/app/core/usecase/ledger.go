package usecase

import (
	"context"

	"github.com/cardbank/ledger/internal/app/core/domain"
)

// Ledger is the outbound port every ledger backend implements.
type Ledger interface {
	// PostTransaction atomically applies one posting and appends its record.
	PostTransaction(ctx context.Context, posting *domain.Posting) (*domain.Transaction, error)
	// GetAccount looks an account up by exact card number.
	GetAccount(ctx context.Context, cardNumber string) (*domain.Account, error)
	// GetTransaction looks a transaction up by id.
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	// ListTransactionsForCard returns every transaction where the card is
	// sender or recipient, in storage order.
	ListTransactionsForCard(ctx context.Context, cardNumber string) ([]*domain.Transaction, error)
	// LoadAllAccounts loads every account, keyed by card number. Used to
	// seed the in-memory backend at startup.
	LoadAllAccounts(ctx context.Context) (map[string]*domain.Account, error)
}
