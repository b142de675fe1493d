package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType classifies a posting. It is always derived from which card
// identifiers resolved to known accounts, never supplied by a caller.
type OperationType string

const (
	// OperationDeposit: only the recipient card is known.
	OperationDeposit OperationType = "deposit"
	// OperationWithdraw: only the sender card is known.
	OperationWithdraw OperationType = "withdraw"
	// OperationTransfer: both cards are known.
	OperationTransfer OperationType = "transfer"
	// OperationExternal: neither card is known; recorded for audit only.
	OperationExternal OperationType = "external"
)

// Transaction is the append-only record of one posting outcome. FromCard and
// ToCard are raw copies of the request strings, not foreign keys: they may
// reference accounts outside this system. A Transaction is created exactly
// once and never updated or deleted.
type Transaction struct {
	ID             int64
	RefID          uuid.UUID
	CardholderName string
	FromCard       string
	ToCard         string
	Amount         decimal.Decimal
	OperationType  OperationType
	// BalanceAfter snapshots the primary account's balance after the
	// posting: the recipient's for deposits, the sender's for withdrawals
	// and transfers, nil for external operations.
	BalanceAfter *decimal.Decimal
	Bank         string
	Comment      string
	Image        string
	Timestamp    time.Time
}
