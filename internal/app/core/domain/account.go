package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a card account. The card number is the identity: an opaque
// string of up to 16 characters, unique and immutable after creation.
// Balance carries two fractional digits and is never negative at rest.
type Account struct {
	ID             int64
	OwnerID        int64
	OwnerName      string
	CardNumber     string
	ExpirationDate time.Time
	// CVV is informational and must never be serialized outward.
	CVV     string
	Balance decimal.Decimal
}

func NewAccount(cardNumber string, balance decimal.Decimal) *Account {
	return &Account{
		CardNumber: cardNumber,
		Balance:    balance,
	}
}

// Deposit credits the account. Balances are only mutated through
// Deposit/Withdraw, and those are only called from Apply.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits the account. The sufficiency check happens before the
// write, so a failed withdrawal leaves the balance untouched.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}
