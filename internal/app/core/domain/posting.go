package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Posting is an ephemeral request to record one operation against zero, one
// or two accounts. FromCard and ToCard are raw caller-supplied strings; the
// ledger resolves them at posting time. RefID deduplicates retries: posting
// the same ref twice returns the original Transaction.
type Posting struct {
	RefID          uuid.UUID
	CardholderName string
	FromCard       string
	ToCard         string
	Amount         decimal.Decimal
	Bank           string
	Comment        string
	Image          string
}

// LockCards returns the card numbers the posting may mutate, sorted so two
// postings touching the same pair always lock in the same order.
func (p *Posting) LockCards() []string {
	cards := make([]string, 0, 2)
	if p.FromCard != "" {
		cards = append(cards, p.FromCard)
	}
	if p.ToCard != "" && p.ToCard != p.FromCard {
		cards = append(cards, p.ToCard)
	}
	sort.Strings(cards)
	return cards
}

// Classify derives the operation type from which card identifiers resolved
// to known accounts. The four cases are mutually exclusive.
func Classify(from, to *Account) OperationType {
	switch {
	case to != nil && from == nil:
		return OperationDeposit
	case from != nil && to == nil:
		return OperationWithdraw
	case from != nil && to != nil:
		return OperationTransfer
	default:
		return OperationExternal
	}
}

// Apply is the single authoritative posting core: it validates the posting
// against the resolved accounts and applies the balance deltas. from and to
// are nil when the raw card string did not resolve. On error no balance is
// touched; the sufficiency check for debits happens before any write, so the
// two-account transfer either moves both balances or neither.
//
// The returned snapshot is the primary account's balance after the posting:
// the recipient's for deposits, the sender's for withdrawals and transfers,
// nil for external operations.
//
// Callers must hold exclusive locks on every resolved account for the whole
// validate-through-write window.
func Apply(p *Posting, from, to *Account) (OperationType, *decimal.Decimal, error) {
	if !p.Amount.IsPositive() {
		return "", nil, ErrInvalidAmount
	}

	op := Classify(from, to)
	switch op {
	case OperationDeposit:
		if err := to.Deposit(p.Amount); err != nil {
			return "", nil, err
		}
		after := to.Balance
		return op, &after, nil

	case OperationWithdraw:
		if err := from.Withdraw(p.Amount); err != nil {
			return "", nil, err
		}
		after := from.Balance
		return op, &after, nil

	case OperationTransfer:
		if err := from.Withdraw(p.Amount); err != nil {
			return "", nil, err
		}
		// Withdraw verified sufficiency; a positive-amount Deposit cannot fail.
		if err := to.Deposit(p.Amount); err != nil {
			return "", nil, err
		}
		after := from.Balance
		return op, &after, nil

	default:
		// Neither card is known: record for audit, mutate nothing.
		return OperationExternal, nil, nil
	}
}
