package domain

import "errors"

var (
	// ErrInvalidAmount rejects non-positive posting amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds rejects a debit that would overdraw a known account.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is raised by direct account lookups only; the
	// posting path treats an unknown card as a classification branch.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is raised by transaction lookups.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWALWriteFailed signals that a posting could not be made durable.
	ErrWALWriteFailed = errors.New("wal write failed")
)
