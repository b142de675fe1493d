package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardbank/ledger/internal/app/core/domain"
	"github.com/cardbank/ledger/internal/app/core/usecase"
	"github.com/cardbank/ledger/pkg/mysql"
)

// sqlCard maps the card_accounts table.
type sqlCard struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OwnerID        int64           `gorm:"column:owner_id;index"`
	OwnerName      string          `gorm:"column:owner_name;size:64"`
	CardNumber     string          `gorm:"column:card_number;size:16;uniqueIndex"`
	ExpirationDate time.Time       `gorm:"column:expiration_date"`
	CVV            string          `gorm:"column:cvv;size:4"`
	Balance        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UpdatedAt      int64           `gorm:"autoUpdateTime:milli"`
}

func (*sqlCard) TableName() string {
	return "card_accounts"
}

// sqlTransaction maps the transactions table. from_card/to_card are plain
// strings, not foreign keys: a row may reference cards outside this system.
type sqlTransaction struct {
	ID             int64            `gorm:"primaryKey;autoIncrement"`
	RefID          []byte           `gorm:"column:ref_id;type:binary(16);uniqueIndex"`
	CardholderName string           `gorm:"column:cardholder_name;size:32"`
	FromCard       string           `gorm:"column:from_card;size:16;index"`
	ToCard         string           `gorm:"column:to_card;size:16;index"`
	Amount         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OperationType  string           `gorm:"column:operation_type;size:10"`
	BalanceAfter   *decimal.Decimal `gorm:"column:balance_after;type:decimal(10,2)"`
	Bank           string           `gorm:"size:64"`
	Comment        string           `gorm:"size:255"`
	Image          string           `gorm:"size:255"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

// MySQLLedger backs the ledger port with MySQL. Every posting runs inside
// one database transaction that takes SELECT ... FOR UPDATE locks on the
// cards it intends to mutate, in sorted card-number order, before any
// balance is read.
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

func (l *MySQLLedger) PostTransaction(ctx context.Context, posting *domain.Posting) (*domain.Transaction, error) {
	var created *domain.Transaction

	err := l.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Idempotent retry: an already-recorded ref returns the original row.
		var existing sqlTransaction
		err := tx.Where("ref_id = ?", posting.RefID[:]).First(&existing).Error
		if err == nil {
			created = toDomainTransaction(&existing)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Lock every card the posting may touch before reading a balance.
		// LockCards sorts, so opposed concurrent transfers cannot deadlock.
		lockCards := posting.LockCards()
		rows := make([]sqlCard, 0, len(lockCards))
		if len(lockCards) > 0 {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("card_number IN ?", lockCards).
				Find(&rows).Error; err != nil {
				return err
			}
		}

		rowByCard := make(map[string]*sqlCard, len(rows))
		acctByCard := make(map[string]*domain.Account, len(rows))
		for i := range rows {
			rowByCard[rows[i].CardNumber] = &rows[i]
			acctByCard[rows[i].CardNumber] = toDomainAccount(&rows[i])
		}

		// Unresolved cards are a classification branch, not an error.
		from := acctByCard[posting.FromCard]
		to := acctByCard[posting.ToCard]

		op, after, err := domain.Apply(posting, from, to)
		if err != nil {
			return err
		}

		for card, row := range rowByCard {
			row.Balance = acctByCard[card].Balance
			if err := tx.Save(row).Error; err != nil {
				return err
			}
		}

		record := sqlTransaction{
			RefID:          posting.RefID[:],
			CardholderName: posting.CardholderName,
			FromCard:       posting.FromCard,
			ToCard:         posting.ToCard,
			Amount:         posting.Amount,
			OperationType:  string(op),
			BalanceAfter:   after,
			Bank:           posting.Bank,
			Comment:        posting.Comment,
			Image:          posting.Image,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		created = toDomainTransaction(&record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (l *MySQLLedger) GetAccount(ctx context.Context, cardNumber string) (*domain.Account, error) {
	var row sqlCard
	err := l.client.DB().WithContext(ctx).Where("card_number = ?", cardNumber).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainAccount(&row), nil
}

func (l *MySQLLedger) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row sqlTransaction
	err := l.client.DB().WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainTransaction(&row), nil
}

func (l *MySQLLedger) ListTransactionsForCard(ctx context.Context, cardNumber string) ([]*domain.Transaction, error) {
	var rows []sqlTransaction
	err := l.client.DB().WithContext(ctx).
		Where("from_card = ? OR to_card = ?", cardNumber, cardNumber).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, toDomainTransaction(&rows[i]))
	}
	return transactions, nil
}

func (l *MySQLLedger) LoadAllAccounts(ctx context.Context) (map[string]*domain.Account, error) {
	var rows []sqlCard
	if err := l.client.DB().WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make(map[string]*domain.Account, len(rows))
	for i := range rows {
		accounts[rows[i].CardNumber] = toDomainAccount(&rows[i])
	}
	return accounts, nil
}

func toDomainAccount(row *sqlCard) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		OwnerName:      row.OwnerName,
		CardNumber:     row.CardNumber,
		ExpirationDate: row.ExpirationDate,
		CVV:            row.CVV,
		Balance:        row.Balance,
	}
}

func toDomainTransaction(row *sqlTransaction) *domain.Transaction {
	refID, _ := uuid.FromBytes(row.RefID)
	return &domain.Transaction{
		ID:             row.ID,
		RefID:          refID,
		CardholderName: row.CardholderName,
		FromCard:       row.FromCard,
		ToCard:         row.ToCard,
		Amount:         row.Amount,
		OperationType:  domain.OperationType(row.OperationType),
		BalanceAfter:   row.BalanceAfter,
		Bank:           row.Bank,
		Comment:        row.Comment,
		Image:          row.Image,
		Timestamp:      row.CreatedAt,
	}
}

var _ usecase.Ledger = (*MySQLLedger)(nil)
