package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardbank/ledger/internal/app/core/domain"
	"github.com/cardbank/ledger/internal/app/core/usecase"
	"github.com/cardbank/ledger/pkg/wal"
)

// MutexLedger keeps accounts and the transaction log in memory behind a
// single mutex. Holding the lock for the whole validate-through-write window
// gives every posting the atomicity the posting core requires: two
// withdrawals can never both pass the sufficiency check against a stale
// balance. Committed transactions are appended to a WAL and replayed on
// boot on top of the seed balances.
type MutexLedger struct {
	accounts map[string]*domain.Account
	mu       sync.RWMutex

	transactions []*domain.Transaction
	byID         map[int64]*domain.Transaction
	// processed maps posting ref IDs to transaction IDs for idempotent retries.
	processed map[uuid.UUID]int64
	nextID    int64

	wal *wal.WAL
}

// NewMutexLedger seeds the ledger with accounts keyed by card number and
// replays the WAL, if one is given, before the ledger is published.
func NewMutexLedger(accounts map[string]*domain.Account, w *wal.WAL) (*MutexLedger, error) {
	ledger := &MutexLedger{
		accounts:  accounts,
		byID:      make(map[int64]*domain.Transaction),
		processed: make(map[uuid.UUID]int64),
		wal:       w,
	}
	if w != nil {
		if err := ledger.recoverFromWAL(); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// recoverFromWAL streams the committed transaction records back into memory.
func (m *MutexLedger) recoverFromWAL() error {
	return m.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return err
		}
		return m.applyRecovered(&tran)
	})
}

// applyRecovered replays one committed transaction. Runs only during
// construction, single-threaded, so no locking.
func (m *MutexLedger) applyRecovered(tran *domain.Transaction) error {
	switch tran.OperationType {
	case domain.OperationDeposit:
		if to, ok := m.accounts[tran.ToCard]; ok {
			if err := to.Deposit(tran.Amount); err != nil {
				return err
			}
		}
	case domain.OperationWithdraw:
		if from, ok := m.accounts[tran.FromCard]; ok {
			if err := from.Withdraw(tran.Amount); err != nil {
				return err
			}
		}
	case domain.OperationTransfer:
		from, fromOK := m.accounts[tran.FromCard]
		to, toOK := m.accounts[tran.ToCard]
		if fromOK && toOK {
			if err := from.Withdraw(tran.Amount); err != nil {
				return err
			}
			if err := to.Deposit(tran.Amount); err != nil {
				return err
			}
		}
	case domain.OperationExternal:
		// audit record only
	}

	m.record(tran)
	return nil
}

// record indexes a transaction. Caller holds the lock (or is single-threaded).
func (m *MutexLedger) record(tran *domain.Transaction) {
	m.transactions = append(m.transactions, tran)
	m.byID[tran.ID] = tran
	m.processed[tran.RefID] = tran.ID
	if tran.ID > m.nextID {
		m.nextID = tran.ID
	}
}

// PostTransaction applies one posting under the ledger lock. A ref ID that
// was already processed returns the original transaction without touching
// any balance.
func (m *MutexLedger) PostTransaction(ctx context.Context, posting *domain.Posting) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.processed[posting.RefID]; ok {
		return m.byID[id], nil
	}

	var from, to *domain.Account
	if posting.FromCard != "" {
		from = m.accounts[posting.FromCard]
	}
	if posting.ToCard != "" {
		to = m.accounts[posting.ToCard]
	}

	op, after, err := domain.Apply(posting, from, to)
	if err != nil {
		return nil, err
	}

	tran := &domain.Transaction{
		ID:             m.nextID + 1,
		RefID:          posting.RefID,
		CardholderName: posting.CardholderName,
		FromCard:       posting.FromCard,
		ToCard:         posting.ToCard,
		Amount:         posting.Amount,
		OperationType:  op,
		BalanceAfter:   after,
		Bank:           posting.Bank,
		Comment:        posting.Comment,
		Image:          posting.Image,
		Timestamp:      time.Now().UTC(),
	}

	if m.wal != nil {
		if err := m.wal.Write(tran); err != nil {
			// The deltas must not outlive a record that was never made
			// durable: undo them and fail the posting whole.
			m.revert(op, posting, from, to)
			return nil, domain.ErrWALWriteFailed
		}
	}

	m.record(tran)
	return tran, nil
}

// revert undoes the balance deltas of an applied but uncommitted posting.
func (m *MutexLedger) revert(op domain.OperationType, posting *domain.Posting, from, to *domain.Account) {
	switch op {
	case domain.OperationDeposit:
		to.Balance = to.Balance.Sub(posting.Amount)
	case domain.OperationWithdraw:
		from.Balance = from.Balance.Add(posting.Amount)
	case domain.OperationTransfer:
		from.Balance = from.Balance.Add(posting.Amount)
		to.Balance = to.Balance.Sub(posting.Amount)
	}
}

// GetAccount returns a copy so callers cannot mutate a balance outside the
// posting path.
func (m *MutexLedger) GetAccount(ctx context.Context, cardNumber string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[cardNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// GetTransaction looks a transaction up by id.
func (m *MutexLedger) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tran, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return tran, nil
}

// ListTransactionsForCard returns every transaction where the card appears
// as sender or recipient, in insertion order.
func (m *MutexLedger) ListTransactionsForCard(ctx context.Context, cardNumber string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*domain.Transaction, 0)
	for _, tran := range m.transactions {
		if tran.FromCard == cardNumber || tran.ToCard == cardNumber {
			matches = append(matches, tran)
		}
	}
	return matches, nil
}

// LoadAllAccounts hands the live map to the caller; used only during startup
// wiring before the ledger serves requests.
func (m *MutexLedger) LoadAllAccounts(ctx context.Context) (map[string]*domain.Account, error) {
	return m.accounts, nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
